package render

// worldFeatures：ISO-3 国家代码到 ECharts world.js 要素名的映射
// 约束：数据集的国家名与地图要素名常不一致（如 South Korea 与 Korea），地图按代码对齐
var worldFeatures = map[string]string{
	"AFG": "Afghanistan",
	"AGO": "Angola",
	"ALB": "Albania",
	"ARE": "United Arab Emirates",
	"ARG": "Argentina",
	"ARM": "Armenia",
	"ATA": "Antarctica",
	"ATF": "Fr. S. Antarctic Lands",
	"AUS": "Australia",
	"AUT": "Austria",
	"AZE": "Azerbaijan",
	"BDI": "Burundi",
	"BEL": "Belgium",
	"BEN": "Benin",
	"BFA": "Burkina Faso",
	"BGD": "Bangladesh",
	"BGR": "Bulgaria",
	"BHS": "Bahamas",
	"BIH": "Bosnia and Herz.",
	"BLR": "Belarus",
	"BLZ": "Belize",
	"BMU": "Bermuda",
	"BOL": "Bolivia",
	"BRA": "Brazil",
	"BRN": "Brunei",
	"BTN": "Bhutan",
	"BWA": "Botswana",
	"CAF": "Central African Rep.",
	"CAN": "Canada",
	"CHE": "Switzerland",
	"CHL": "Chile",
	"CHN": "China",
	"CIV": "Côte d'Ivoire",
	"CMR": "Cameroon",
	"COD": "Dem. Rep. Congo",
	"COG": "Congo",
	"COL": "Colombia",
	"CRI": "Costa Rica",
	"CUB": "Cuba",
	"CYP": "Cyprus",
	"CZE": "Czech Rep.",
	"DEU": "Germany",
	"DJI": "Djibouti",
	"DNK": "Denmark",
	"DOM": "Dominican Rep.",
	"DZA": "Algeria",
	"ECU": "Ecuador",
	"EGY": "Egypt",
	"ERI": "Eritrea",
	"ESH": "W. Sahara",
	"ESP": "Spain",
	"EST": "Estonia",
	"ETH": "Ethiopia",
	"FIN": "Finland",
	"FJI": "Fiji",
	"FLK": "Falkland Is.",
	"FRA": "France",
	"GAB": "Gabon",
	"GBR": "United Kingdom",
	"GEO": "Georgia",
	"GHA": "Ghana",
	"GIN": "Guinea",
	"GMB": "Gambia",
	"GNB": "Guinea-Bissau",
	"GNQ": "Eq. Guinea",
	"GRC": "Greece",
	"GRL": "Greenland",
	"GTM": "Guatemala",
	"GUF": "French Guiana",
	"GUY": "Guyana",
	"HND": "Honduras",
	"HRV": "Croatia",
	"HTI": "Haiti",
	"HUN": "Hungary",
	"IDN": "Indonesia",
	"IND": "India",
	"IRL": "Ireland",
	"IRN": "Iran",
	"IRQ": "Iraq",
	"ISL": "Iceland",
	"ISR": "Israel",
	"ITA": "Italy",
	"JAM": "Jamaica",
	"JOR": "Jordan",
	"JPN": "Japan",
	"KAZ": "Kazakhstan",
	"KEN": "Kenya",
	"KGZ": "Kyrgyzstan",
	"KHM": "Cambodia",
	"KOR": "Korea",
	"KWT": "Kuwait",
	"LAO": "Lao PDR",
	"LBN": "Lebanon",
	"LBR": "Liberia",
	"LBY": "Libya",
	"LKA": "Sri Lanka",
	"LSO": "Lesotho",
	"LTU": "Lithuania",
	"LUX": "Luxembourg",
	"LVA": "Latvia",
	"MAR": "Morocco",
	"MDA": "Moldova",
	"MDG": "Madagascar",
	"MEX": "Mexico",
	"MKD": "Macedonia",
	"MLI": "Mali",
	"MMR": "Myanmar",
	"MNE": "Montenegro",
	"MNG": "Mongolia",
	"MOZ": "Mozambique",
	"MRT": "Mauritania",
	"MWI": "Malawi",
	"MYS": "Malaysia",
	"NAM": "Namibia",
	"NCL": "New Caledonia",
	"NER": "Niger",
	"NGA": "Nigeria",
	"NIC": "Nicaragua",
	"NLD": "Netherlands",
	"NOR": "Norway",
	"NPL": "Nepal",
	"NZL": "New Zealand",
	"OMN": "Oman",
	"PAK": "Pakistan",
	"PAN": "Panama",
	"PER": "Peru",
	"PHL": "Philippines",
	"PNG": "Papua New Guinea",
	"POL": "Poland",
	"PRI": "Puerto Rico",
	"PRK": "Dem. Rep. Korea",
	"PRT": "Portugal",
	"PRY": "Paraguay",
	"PSE": "Palestine",
	"QAT": "Qatar",
	"ROU": "Romania",
	"RUS": "Russia",
	"RWA": "Rwanda",
	"SAU": "Saudi Arabia",
	"SDN": "Sudan",
	"SEN": "Senegal",
	"SLB": "Solomon Is.",
	"SLE": "Sierra Leone",
	"SLV": "El Salvador",
	"SOM": "Somalia",
	"SRB": "Serbia",
	"SSD": "S. Sudan",
	"SUR": "Suriname",
	"SVK": "Slovakia",
	"SVN": "Slovenia",
	"SWE": "Sweden",
	"SWZ": "Swaziland",
	"SYR": "Syria",
	"TCD": "Chad",
	"TGO": "Togo",
	"THA": "Thailand",
	"TJK": "Tajikistan",
	"TKM": "Turkmenistan",
	"TLS": "Timor-Leste",
	"TTO": "Trinidad and Tobago",
	"TUN": "Tunisia",
	"TUR": "Turkey",
	"TWN": "Taiwan",
	"TZA": "Tanzania",
	"UGA": "Uganda",
	"UKR": "Ukraine",
	"URY": "Uruguay",
	"USA": "United States",
	"UZB": "Uzbekistan",
	"VEN": "Venezuela",
	"VNM": "Vietnam",
	"VUT": "Vanuatu",
	"YEM": "Yemen",
	"ZAF": "South Africa",
	"ZMB": "Zambia",
	"ZWE": "Zimbabwe",
}

// featureName：代码对应的要素名；未收录的代码退回数据集标签
func featureName(code, label string) string {
	if name, ok := worldFeatures[code]; ok {
		return name
	}
	return label
}
