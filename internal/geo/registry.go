package geo

import (
	"github.com/i474232898/weather-team/internal/weather"
)

// place is one registry row: a coordinate pair and every alias that maps to
// it. The first alias is the display name.
type place struct {
	lat, lon float64
	names    []string
}

var places = []place{
	// Municipalities and provincial capitals.
	{39.9042, 116.4074, []string{"北京", "Beijing", "Peking", "北京市"}},
	{31.2304, 121.4737, []string{"上海", "Shanghai", "上海市"}},
	{39.3434, 117.3616, []string{"天津", "Tianjin", "天津市"}},
	{29.5630, 106.5516, []string{"重庆", "Chongqing", "重庆市"}},
	{23.1291, 113.2644, []string{"广州", "Guangzhou", "Canton"}},
	{22.5431, 114.0579, []string{"深圳", "Shenzhen"}},
	{30.2741, 120.1551, []string{"杭州", "Hangzhou"}},
	{32.0603, 118.7969, []string{"南京", "Nanjing"}},
	{30.5928, 114.3055, []string{"武汉", "Wuhan"}},
	{30.5728, 104.0668, []string{"成都", "Chengdu"}},
	{34.3416, 108.9398, []string{"西安", "Xi'an", "Xian"}},
	{31.2989, 120.5853, []string{"苏州", "Suzhou"}},
	{36.0671, 120.3826, []string{"青岛", "Qingdao"}},
	{29.8683, 121.5440, []string{"宁波", "Ningbo"}},
	{31.5912, 120.3019, []string{"无锡", "Wuxi"}},
	{36.6512, 117.1201, []string{"济南", "Jinan"}},
	{38.9140, 121.6147, []string{"大连", "Dalian"}},
	{41.8057, 123.4315, []string{"沈阳", "Shenyang"}},
	{43.8171, 125.3235, []string{"长春", "Changchun"}},
	{45.8038, 126.5349, []string{"哈尔滨", "Harbin"}},
	{26.0745, 119.2965, []string{"福州", "Fuzhou"}},
	{24.4798, 118.0894, []string{"厦门", "Xiamen", "Amoy"}},
	{25.0389, 102.7183, []string{"昆明", "Kunming"}},
	{28.6820, 115.8581, []string{"南昌", "Nanchang"}},
	{31.8669, 117.2741, []string{"合肥", "Hefei"}},
	{38.0428, 114.5149, []string{"石家庄", "Shijiazhuang"}},
	{37.8706, 112.5489, []string{"太原", "Taiyuan"}},
	{34.7466, 113.6254, []string{"郑州", "Zhengzhou"}},
	{28.2282, 112.9388, []string{"长沙", "Changsha"}},
	{22.8170, 108.3669, []string{"南宁", "Nanning"}},
	{20.0444, 110.1999, []string{"海口", "Haikou"}},
	{26.6470, 106.6302, []string{"贵阳", "Guiyang"}},
	{36.0611, 103.8343, []string{"兰州", "Lanzhou"}},
	{38.4681, 106.2731, []string{"银川", "Yinchuan"}},
	{36.6171, 101.7782, []string{"西宁", "Xining"}},
	{43.7793, 87.6177, []string{"乌鲁木齐", "Urumqi", "Ürümqi"}},
	{29.6625, 91.1110, []string{"拉萨", "Lhasa"}},
	{40.8424, 111.7490, []string{"呼和浩特", "Hohhot"}},
	{22.3193, 114.1694, []string{"香港", "Hong Kong", "HongKong"}},
	{22.1987, 113.5439, []string{"澳门", "Macau", "Macao"}},
	{25.0330, 121.5654, []string{"台北", "Taipei"}},

	// Other mainland cities.
	{18.2528, 109.5119, []string{"三亚", "Sanya"}},
	{22.2707, 113.5767, []string{"珠海", "Zhuhai"}},
	{23.0215, 113.1214, []string{"佛山", "Foshan"}},
	{23.0207, 113.7518, []string{"东莞", "Dongguan"}},
	{22.5176, 113.3926, []string{"中山", "Zhongshan"}},
	{23.3541, 116.6819, []string{"汕头", "Shantou"}},
	{21.2707, 110.3594, []string{"湛江", "Zhanjiang"}},
	{23.1115, 114.4152, []string{"惠州", "Huizhou"}},
	{27.9938, 120.6994, []string{"温州", "Wenzhou"}},
	{30.0303, 120.5802, []string{"绍兴", "Shaoxing"}},
	{30.7539, 120.7586, []string{"嘉兴", "Jiaxing"}},
	{29.0785, 119.6474, []string{"金华", "Jinhua"}},
	{29.3062, 120.0751, []string{"义乌", "Yiwu"}},
	{30.8931, 120.0868, []string{"湖州", "Huzhou"}},
	{29.9853, 122.2072, []string{"舟山", "Zhoushan"}},
	{34.2044, 117.2858, []string{"徐州", "Xuzhou"}},
	{31.8107, 119.9741, []string{"常州", "Changzhou"}},
	{31.9802, 120.8943, []string{"南通", "Nantong"}},
	{32.3942, 119.4129, []string{"扬州", "Yangzhou"}},
	{32.1878, 119.4250, []string{"镇江", "Zhenjiang"}},
	{34.5967, 119.2216, []string{"连云港", "Lianyungang"}},
	{37.4638, 121.4479, []string{"烟台", "Yantai"}},
	{37.5128, 122.1201, []string{"威海", "Weihai"}},
	{36.7069, 119.1618, []string{"潍坊", "Weifang"}},
	{35.1045, 118.3564, []string{"临沂", "Linyi"}},
	{36.8131, 118.0549, []string{"淄博", "Zibo"}},
	{36.1999, 117.0885, []string{"泰安", "Tai'an", "Taian"}},
	{35.4154, 119.5269, []string{"日照", "Rizhao"}},
	{34.6197, 112.4540, []string{"洛阳", "Luoyang"}},
	{34.7971, 114.3076, []string{"开封", "Kaifeng"}},
	{25.2736, 110.2900, []string{"桂林", "Guilin"}},
	{24.3264, 109.4281, []string{"柳州", "Liuzhou"}},
	{21.4733, 109.1201, []string{"北海", "Beihai"}},
	{24.8741, 118.6757, []string{"泉州", "Quanzhou"}},
	{24.5130, 117.6471, []string{"漳州", "Zhangzhou"}},
	{26.8721, 100.2299, []string{"丽江", "Lijiang"}},
	{25.6065, 100.2676, []string{"大理", "Dali"}},
	{22.0017, 100.7979, []string{"景洪", "Jinghong", "西双版纳"}},
	{40.6574, 109.8403, []string{"包头", "Baotou"}},
	{39.6086, 109.7813, []string{"鄂尔多斯", "Ordos"}},
	{49.2116, 119.7658, []string{"呼伦贝尔", "Hulunbuir"}},
	{39.6309, 118.1802, []string{"唐山", "Tangshan"}},
	{38.8740, 115.4646, []string{"保定", "Baoding"}},
	{39.9354, 119.6005, []string{"秦皇岛", "Qinhuangdao"}},
	{40.7677, 114.8863, []string{"张家口", "Zhangjiakou"}},
	{36.6256, 114.5391, []string{"邯郸", "Handan"}},
	{40.0768, 113.3001, []string{"大同", "Datong"}},
	{30.6919, 111.2865, []string{"宜昌", "Yichang"}},
	{32.0090, 112.1226, []string{"襄阳", "Xiangyang"}},
	{29.3572, 113.1289, []string{"岳阳", "Yueyang"}},
	{27.8274, 113.1340, []string{"株洲", "Zhuzhou"}},
	{29.1170, 110.4792, []string{"张家界", "Zhangjiajie"}},
	{29.7051, 116.0019, []string{"九江", "Jiujiang"}},
	{25.8312, 114.9336, []string{"赣州", "Ganzhou"}},
	{29.2689, 117.1784, []string{"景德镇", "Jingdezhen"}},
	{31.3526, 118.4331, []string{"芜湖", "Wuhu"}},
	{29.7147, 118.3375, []string{"黄山", "Huangshan"}},
	{30.5430, 117.0634, []string{"安庆", "Anqing"}},
	{31.4678, 104.6796, []string{"绵阳", "Mianyang"}},
	{28.7513, 104.6417, []string{"宜宾", "Yibin"}},
	{29.5521, 103.7656, []string{"乐山", "Leshan"}},
	{27.7250, 106.9272, []string{"遵义", "Zunyi"}},
	{36.5853, 109.4897, []string{"延安", "Yan'an", "Yanan"}},
	{34.3619, 107.2373, []string{"宝鸡", "Baoji"}},
	{34.3296, 108.7093, []string{"咸阳", "Xianyang"}},
	{40.1421, 94.6619, []string{"敦煌", "Dunhuang"}},
	{39.7732, 98.2893, []string{"嘉峪关", "Jiayuguan"}},
	{39.4704, 75.9898, []string{"喀什", "Kashgar", "Kashi"}},
	{42.9513, 89.1895, []string{"吐鲁番", "Turpan"}},
	{43.9168, 81.3241, []string{"伊宁", "Yining", "Ghulja"}},
	{29.2670, 88.8800, []string{"日喀则", "Shigatse"}},
	{29.6490, 94.3615, []string{"林芝", "Nyingchi"}},
	{43.8378, 126.5494, []string{"吉林", "Jilin"}},
	{42.8912, 129.5077, []string{"延吉", "Yanji"}},
	{47.3543, 123.9180, []string{"齐齐哈尔", "Qiqihar"}},
	{46.5893, 125.1040, []string{"大庆", "Daqing"}},
	{44.5523, 129.6332, []string{"牡丹江", "Mudanjiang"}},
	{40.0006, 124.3544, []string{"丹东", "Dandong"}},
	{41.1087, 122.9946, []string{"鞍山", "Anshan"}},
	{41.0951, 121.1270, []string{"锦州", "Jinzhou"}},
	{25.4540, 119.0077, []string{"莆田", "Putian"}},
	{22.6329, 120.3014, []string{"高雄", "Kaohsiung"}},

	// International.
	{35.6762, 139.6503, []string{"东京", "Tokyo", "東京"}},
	{34.6937, 135.5023, []string{"大阪", "Osaka"}},
	{35.0116, 135.7681, []string{"京都", "Kyoto"}},
	{35.7776, 140.3183, []string{"印西", "Inzai"}},
	{43.0618, 141.3545, []string{"札幌", "Sapporo"}},
	{37.5665, 126.9780, []string{"首尔", "Seoul", "서울"}},
	{35.1796, 129.0756, []string{"釜山", "Busan", "부산"}},
	{1.3521, 103.8198, []string{"新加坡", "Singapore"}},
	{13.7563, 100.5018, []string{"曼谷", "Bangkok"}},
	{3.1390, 101.6869, []string{"吉隆坡", "Kuala Lumpur"}},
	{21.0278, 105.8342, []string{"河内", "Hanoi"}},
	{10.8231, 106.6297, []string{"胡志明市", "Ho Chi Minh City", "Saigon"}},
	{-6.2088, 106.8456, []string{"雅加达", "Jakarta"}},
	{14.5995, 120.9842, []string{"马尼拉", "Manila"}},
	{28.6139, 77.2090, []string{"新德里", "New Delhi"}},
	{19.0760, 72.8777, []string{"孟买", "Mumbai"}},
	{25.2048, 55.2708, []string{"迪拜", "Dubai"}},
	{51.5074, -0.1278, []string{"伦敦", "London"}},
	{48.8566, 2.3522, []string{"巴黎", "Paris"}},
	{52.5200, 13.4050, []string{"柏林", "Berlin"}},
	{41.9028, 12.4964, []string{"罗马", "Rome", "Roma"}},
	{40.4168, -3.7038, []string{"马德里", "Madrid"}},
	{55.7558, 37.6173, []string{"莫斯科", "Moscow"}},
	{52.3676, 4.9041, []string{"阿姆斯特丹", "Amsterdam"}},
	{40.7128, -74.0060, []string{"纽约", "New York", "NYC"}},
	{34.0522, -118.2437, []string{"洛杉矶", "Los Angeles"}},
	{37.7749, -122.4194, []string{"旧金山", "San Francisco"}},
	{41.8781, -87.6298, []string{"芝加哥", "Chicago"}},
	{49.2827, -123.1207, []string{"温哥华", "Vancouver"}},
	{43.6532, -79.3832, []string{"多伦多", "Toronto"}},
	{-33.8688, 151.2093, []string{"悉尼", "Sydney"}},
	{-37.8136, 144.9631, []string{"墨尔本", "Melbourne"}},
	{-36.8485, 174.7633, []string{"奥克兰", "Auckland"}},
	{30.0444, 31.2357, []string{"开罗", "Cairo"}},
	{-22.9068, -43.1729, []string{"里约热内卢", "Rio de Janeiro"}},
	{19.4326, -99.1332, []string{"墨西哥城", "Mexico City"}},
}

// Registry is the static name -> coordinates table. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	coords  map[string]weather.Coordinates
	display []string
}

// NewRegistry builds the built-in registry.
func NewRegistry() *Registry {
	r := &Registry{
		coords:  make(map[string]weather.Coordinates, len(places)*3),
		display: make([]string, 0, len(places)),
	}
	for _, p := range places {
		c := weather.Coordinates{Latitude: p.lat, Longitude: p.lon}
		for _, n := range p.names {
			r.coords[n] = c
		}
		r.display = append(r.display, p.names[0])
	}
	return r
}

// Lookup is an exact, case-sensitive match.
func (r *Registry) Lookup(name string) (weather.Coordinates, bool) {
	c, ok := r.coords[name]
	return c, ok
}

// Names returns one display name per place, in table order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.display))
	copy(out, r.display)
	return out
}

// Keys returns every alias in the registry.
func (r *Registry) Keys() []string {
	out := make([]string, 0, len(r.coords))
	for k := range r.coords {
		out = append(out, k)
	}
	return out
}

// Len returns the number of aliases.
func (r *Registry) Len() int {
	return len(r.coords)
}
