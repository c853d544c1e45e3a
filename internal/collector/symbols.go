package collector

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Exchange is a Chinese futures exchange, valued by its EastMoney market id.
type Exchange int

const (
	CFFEX Exchange = 8
	SHFE  Exchange = 113
	DCE   Exchange = 114
	CZCE  Exchange = 115
	INE   Exchange = 142
)

func (e Exchange) String() string {
	switch e {
	case CFFEX:
		return "CFFEX"
	case SHFE:
		return "SHFE"
	case DCE:
		return "DCE"
	case CZCE:
		return "CZCE"
	case INE:
		return "INE"
	}
	return fmt.Sprintf("Exchange(%d)", int(e))
}

// Product describes one listed futures product.
type Product struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Exchange Exchange `json:"-"`
}

var products = map[string]Product{
	"RB": {"RB", "螺纹钢", SHFE},
	"HC": {"HC", "热卷", SHFE},
	"AU": {"AU", "沪金", SHFE},
	"AG": {"AG", "沪银", SHFE},
	"CU": {"CU", "沪铜", SHFE},
	"AL": {"AL", "沪铝", SHFE},
	"ZN": {"ZN", "沪锌", SHFE},
	"NI": {"NI", "沪镍", SHFE},
	"SN": {"SN", "沪锡", SHFE},
	"FU": {"FU", "燃料油", SHFE},
	"RU": {"RU", "橡胶", SHFE},
	"BU": {"BU", "沥青", SHFE},
	"SP": {"SP", "纸浆", SHFE},
	"SC": {"SC", "原油", INE},
	"LU": {"LU", "低硫燃油", INE},
	"A":  {"A", "豆一", DCE},
	"M":  {"M", "豆粕", DCE},
	"Y":  {"Y", "豆油", DCE},
	"P":  {"P", "棕榈油", DCE},
	"C":  {"C", "玉米", DCE},
	"CS": {"CS", "玉米淀粉", DCE},
	"JD": {"JD", "鸡蛋", DCE},
	"PP": {"PP", "PP", DCE},
	"L":  {"L", "塑料", DCE},
	"V":  {"V", "PVC", DCE},
	"EG": {"EG", "乙二醇", DCE},
	"I":  {"I", "铁矿石", DCE},
	"J":  {"J", "焦炭", DCE},
	"JM": {"JM", "焦煤", DCE},
	"MA": {"MA", "甲醇", CZCE},
	"TA": {"TA", "PTA", CZCE},
	"SR": {"SR", "白糖", CZCE},
	"CF": {"CF", "棉花", CZCE},
	"RM": {"RM", "菜粕", CZCE},
	"OI": {"OI", "菜油", CZCE},
	"FG": {"FG", "玻璃", CZCE},
	"SA": {"SA", "纯碱", CZCE},
	"IF": {"IF", "沪深300", CFFEX},
	"IH": {"IH", "上证50", CFFEX},
	"IC": {"IC", "中证500", CFFEX},
	"IM": {"IM", "中证1000", CFFEX},
}

// ProductCode strips the contract month or continuous suffix: "rb888" and
// "RB2505" both give "RB".
func ProductCode(symbol string) string {
	return strings.TrimRightFunc(strings.ToUpper(strings.TrimSpace(symbol)), unicode.IsDigit)
}

// SinaSymbol maps a symbol to Sina's naming: the 888 main-continuous suffix
// becomes 0 ("RB888" -> "RB0"); anything else is upper-cased as is.
func SinaSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if base, ok := strings.CutSuffix(s, "888"); ok && base != "" {
		return base + "0"
	}
	return s
}

// EastMoneySecID returns the EastMoney quote id of a product's main
// continuous contract, e.g. "113.rbm".
func EastMoneySecID(symbol string) (string, error) {
	p, ok := products[ProductCode(symbol)]
	if !ok {
		return "", fmt.Errorf("unknown futures product %q", symbol)
	}
	code := strings.ToLower(p.Code) + "m"
	if p.Exchange == CZCE || p.Exchange == CFFEX {
		code = p.Code + "M"
	}
	return fmt.Sprintf("%d.%s", int(p.Exchange), code), nil
}

// SymbolInfo is one search hit.
type SymbolInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// Search returns main-continuous symbols whose code or name contains q,
// ordered by code. An empty q lists everything.
func Search(q string) []SymbolInfo {
	q = strings.ToUpper(strings.TrimSpace(q))
	out := make([]SymbolInfo, 0)
	for _, p := range products {
		if q != "" && !strings.Contains(p.Code+"888", q) && !strings.Contains(strings.ToUpper(p.Name), q) {
			continue
		}
		out = append(out, SymbolInfo{Symbol: p.Code + "888", Name: p.Name + "主连", Exchange: p.Exchange.String()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// DisplayName returns "螺纹钢主连" style names, or the symbol itself when
// the product is unknown.
func DisplayName(symbol string) string {
	if p, ok := products[ProductCode(symbol)]; ok {
		return p.Name + "主连"
	}
	return strings.ToUpper(symbol)
}
