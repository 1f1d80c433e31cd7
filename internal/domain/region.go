package domain

// Region is a Korean first-level administrative division.
// Name matches properties.name in the provinces boundary file and is the join key.
type Region struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Regions is the fixed province enumeration, in display order.
var Regions = []Region{
	{Name: "서울특별시", Label: "Seoul"},
	{Name: "부산광역시", Label: "Busan"},
	{Name: "대구광역시", Label: "Daegu"},
	{Name: "인천광역시", Label: "Incheon"},
	{Name: "광주광역시", Label: "Gwangju"},
	{Name: "대전광역시", Label: "Daejeon"},
	{Name: "울산광역시", Label: "Ulsan"},
	{Name: "세종특별자치시", Label: "Sejong"},
	{Name: "경기도", Label: "Gyeonggi"},
	{Name: "강원도", Label: "Gangwon"},
	{Name: "충청북도", Label: "North Chungcheong"},
	{Name: "충청남도", Label: "South Chungcheong"},
	{Name: "전라북도", Label: "North Jeolla"},
	{Name: "전라남도", Label: "South Jeolla"},
	{Name: "경상북도", Label: "North Gyeongsang"},
	{Name: "경상남도", Label: "South Gyeongsang"},
	{Name: "제주특별자치도", Label: "Jeju"},
}

// CoastalCatchBase is the starting annual catch in tons for each coastal
// province. Provinces not listed have base 0.
var CoastalCatchBase = map[string]float64{
	"부산광역시":   250000,
	"인천광역시":   150000,
	"울산광역시":   100000,
	"강원도":     180000,
	"충청남도":    220000,
	"전라북도":    200000,
	"전라남도":    400000,
	"경상북도":    300000,
	"경상남도":    350000,
	"제주특별자치도": 120000,
}

// RegionNames returns the join keys of regions in order.
func RegionNames(regions []Region) []string {
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = r.Name
	}
	return names
}
