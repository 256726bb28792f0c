package bazi

// naYinNames holds the sound element of each consecutive pair in the
// sexagenary cycle: 甲子乙丑 share 海中金, 丙寅丁卯 share 炉中火 and so on.
var naYinNames = [30]string{
	"海中金", "炉中火", "大林木", "路旁土", "剑锋金",
	"山头火", "涧下水", "城头土", "白蜡金", "杨柳木",
	"泉中水", "屋上土", "霹雳火", "松柏木", "长流水",
	"沙中金", "山下火", "平地木", "壁上土", "金箔金",
	"覆灯火", "天河水", "大驿土", "钗钏金", "桑柘木",
	"大溪水", "沙中土", "天上火", "石榴木", "大海水",
}

// NaYin returns the pillar's sound element, e.g. 甲子 -> 海中金.
func (p Pillar) NaYin() string {
	n := p.Cycle()
	if n < 0 {
		return "未知"
	}
	return naYinNames[n/2]
}
