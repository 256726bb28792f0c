package calendarrepo

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/yanqian/bazi/internal/domain/bazi"
)

// DecodeSnapshot reads a JSON array of calendar records.
func DecodeSnapshot(r io.Reader) ([]bazi.CalendarRecord, error) {
	var records []bazi.CalendarRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode calendar snapshot: %w", err)
	}
	return records, nil
}

// LoadSnapshotFile reads a snapshot file into a memory repository.
func LoadSnapshotFile(path string) (*MemoryRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calendar snapshot: %w", err)
	}
	defer f.Close()
	records, err := DecodeSnapshot(f)
	if err != nil {
		return nil, err
	}
	return NewMemoryRepository(records...), nil
}
