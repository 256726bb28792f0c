package bazi

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/yanqian/bazi/pkg/errors"
)

// Element is one of the five phases. The zero value is Wood.
type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// Elements lists the five phases in generation order.
var Elements = [5]Element{Wood, Fire, Earth, Metal, Water}

var elementNames = [5]string{"wood", "fire", "earth", "metal", "water"}
var elementChinese = [5]string{"木", "火", "土", "金", "水"}

func (e Element) String() string {
	if e < Wood || e > Water {
		return fmt.Sprintf("element(%d)", int(e))
	}
	return elementNames[e]
}

// Chinese returns the single character name, e.g. 木.
func (e Element) Chinese() string {
	if e < Wood || e > Water {
		return "?"
	}
	return elementChinese[e]
}

// Generates returns the element this one produces (木生火).
func (e Element) Generates() Element { return (e + 1) % 5 }

// GeneratedBy returns the element that produces this one.
func (e Element) GeneratedBy() Element { return (e + 4) % 5 }

// Restrains returns the element this one controls (木克土).
func (e Element) Restrains() Element { return (e + 2) % 5 }

// RestrainedBy returns the element that controls this one.
func (e Element) RestrainedBy() Element { return (e + 3) % 5 }

// MarshalText encodes the element by its English name.
func (e Element) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText accepts either the English or the Chinese name.
func (e *Element) UnmarshalText(text []byte) error {
	parsed, err := ParseElement(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseElement resolves an element by English or Chinese name.
func ParseElement(raw string) (Element, error) {
	clean := strings.ToLower(strings.TrimSpace(raw))
	for i := range elementNames {
		if clean == elementNames[i] || clean == elementChinese[i] {
			return Element(i), nil
		}
	}
	return Wood, invalidInput(fmt.Sprintf("unknown element %q", raw))
}

// Stem is one of the ten heavenly stems, 甲 = 0.
type Stem int

// Branch is one of the twelve earthly branches, 子 = 0.
type Branch int

const stemCount, branchCount = 10, 12

var stemRunes = [stemCount]rune{'甲', '乙', '丙', '丁', '戊', '己', '庚', '辛', '壬', '癸'}
var branchRunes = [branchCount]rune{'子', '丑', '寅', '卯', '辰', '巳', '午', '未', '申', '酉', '戌', '亥'}

var branchElements = [branchCount]Element{
	Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water,
}

var zodiacNames = [branchCount]string{"鼠", "牛", "虎", "兔", "龙", "蛇", "马", "羊", "猴", "鸡", "狗", "猪"}

var hourNames = [branchCount]string{
	"子时", "丑时", "寅时", "卯时", "辰时", "巳时", "午时", "未时", "申时", "酉时", "戌时", "亥时",
}

// Named branches used by the month tables.
const (
	BranchZi Branch = iota
	BranchChou
	BranchYin
	BranchMao
	BranchChen
	BranchSi
	BranchWu
	BranchWei
	BranchShen
	BranchYou
	BranchXu
	BranchHai
)

// Named stems.
const (
	StemJia Stem = iota
	StemYi
	StemBing
	StemDing
	StemWu
	StemJi
	StemGeng
	StemXin
	StemRen
	StemGui
)

// StemAt wraps any integer into the stem cycle.
func StemAt(n int) Stem { return Stem(mod(n, stemCount)) }

// BranchAt wraps any integer into the branch cycle.
func BranchAt(n int) Branch { return Branch(mod(n, branchCount)) }

func (s Stem) String() string {
	if s < 0 || s >= stemCount {
		return "?"
	}
	return string(stemRunes[s])
}

// Element maps adjacent stem pairs to one phase: 甲乙木, 丙丁火 ...
func (s Stem) Element() Element { return Element(int(s) / 2) }

// Yang reports whether the stem is one of 甲丙戊庚壬.
func (s Stem) Yang() bool { return s%2 == 0 }

func (b Branch) String() string {
	if b < 0 || b >= branchCount {
		return "?"
	}
	return string(branchRunes[b])
}

// Element returns the fixed phase of the branch.
func (b Branch) Element() Element { return branchElements[b] }

// Zodiac returns the animal sign of the branch.
func (b Branch) Zodiac() string { return zodiacNames[b] }

// HourName returns the double-hour label, e.g. 巳时.
func (b Branch) HourName() string { return hourNames[b] }

// MarshalText encodes the stem as its character.
func (s Stem) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MarshalText encodes the branch as its character.
func (b Branch) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText parses a stem character.
func (s *Stem) UnmarshalText(text []byte) error {
	parsed, err := ParseStem(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalText parses a branch character.
func (b *Branch) UnmarshalText(text []byte) error {
	parsed, err := ParseBranch(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseStem resolves a single stem character.
func ParseStem(raw string) (Stem, error) {
	r, size := utf8.DecodeRuneInString(strings.TrimSpace(raw))
	if size == 0 || utf8.RuneCountInString(strings.TrimSpace(raw)) != 1 {
		return 0, invalidInput(fmt.Sprintf("malformed stem %q", raw))
	}
	for i, candidate := range stemRunes {
		if candidate == r {
			return Stem(i), nil
		}
	}
	return 0, invalidInput(fmt.Sprintf("unknown stem %q", raw))
}

// ParseBranch resolves a single branch character.
func ParseBranch(raw string) (Branch, error) {
	r, size := utf8.DecodeRuneInString(strings.TrimSpace(raw))
	if size == 0 || utf8.RuneCountInString(strings.TrimSpace(raw)) != 1 {
		return 0, invalidInput(fmt.Sprintf("malformed branch %q", raw))
	}
	for i, candidate := range branchRunes {
		if candidate == r {
			return Branch(i), nil
		}
	}
	return 0, invalidInput(fmt.Sprintf("unknown branch %q", raw))
}

// Pillar is a stem-branch pair.
type Pillar struct {
	Stem   Stem
	Branch Branch
}

// NewPillarFromCycle builds the n-th pillar of the sexagenary cycle (0 = 甲子).
// Stem and branch always share parity, so every pillar built here is valid.
func NewPillarFromCycle(n int) Pillar {
	n = mod(n, 60)
	return Pillar{Stem: StemAt(n), Branch: BranchAt(n)}
}

// ParsePillar parses a two character pillar such as "甲子".
func ParsePillar(raw string) (Pillar, error) {
	clean := strings.TrimSpace(raw)
	runes := []rune(clean)
	if len(runes) != 2 {
		return Pillar{}, invalidInput(fmt.Sprintf("malformed pillar %q", raw))
	}
	stem, err := ParseStem(string(runes[0]))
	if err != nil {
		return Pillar{}, err
	}
	branch, err := ParseBranch(string(runes[1]))
	if err != nil {
		return Pillar{}, err
	}
	if int(stem)%2 != int(branch)%2 {
		return Pillar{}, invalidInput(fmt.Sprintf("pillar %q is not part of the sexagenary cycle", raw))
	}
	return Pillar{Stem: stem, Branch: branch}, nil
}

// Cycle returns the sexagenary index of the pillar (甲子 = 0).
func (p Pillar) Cycle() int {
	for n := int(p.Stem); n < 60; n += stemCount {
		if n%branchCount == int(p.Branch) {
			return n
		}
	}
	return -1
}

func (p Pillar) String() string { return p.Stem.String() + p.Branch.String() }

// Elements renders the pillar's stem and branch phases, e.g. 金土.
func (p Pillar) Elements() string {
	return p.Stem.Element().Chinese() + p.Branch.Element().Chinese()
}

// MarshalText encodes the pillar as its two characters.
func (p Pillar) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText parses a two character pillar.
func (p *Pillar) UnmarshalText(text []byte) error {
	parsed, err := ParsePillar(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// FourPillars holds the year, month, day and hour pillars.
type FourPillars struct {
	Year  Pillar `json:"year"`
	Month Pillar `json:"month"`
	Day   Pillar `json:"day"`
	Hour  Pillar `json:"hour"`
}

// All returns the pillars in year, month, day, hour order.
func (f FourPillars) All() [4]Pillar {
	return [4]Pillar{f.Year, f.Month, f.Day, f.Hour}
}

// DayMaster is the stem of the day pillar.
func (f FourPillars) DayMaster() Stem { return f.Day.Stem }

func (f FourPillars) String() string {
	return f.Year.String() + " " + f.Month.String() + " " + f.Day.String() + " " + f.Hour.String()
}

func mod(n, m int) int {
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}

func invalidInput(message string) error {
	return apperrors.Wrap(CodeInvalidInput, message, nil)
}
