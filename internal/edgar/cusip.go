package edgar

// cusipToTicker is a static mapping for the most common large-cap CUSIPs.
// Deliberately incomplete: an unmapped CUSIP simply yields no ticker, which
// keeps the system free of any on-the-fly resolution dependency.
var cusipToTicker = map[string]string{
	"037833100": "AAPL",
	"02079K305": "GOOGL",
	"02079K107": "GOOGL",
	"38259P508": "GOOGL",
	"40171V100": "GOOG",
	"594918104": "MSFT",
	"023135106": "AMZN",
	"67066G104": "NVDA",
	"30303M102": "META",
	"88160R101": "TSLA",
	"46090E103": "JPM",
	"46625H100": "JPM",
	"60505104":  "BAC",
	"172967424": "BRK-B",
	"172967304": "BRK-B",
	"110122108": "BRK-A",
	"166764100": "C",
	"949746101": "WFC",
	"38141G104": "GS",
	"404280406": "GS",
	"617446448": "MS",
	"61945C103": "MS",
	"26441C204": "KO",
	"713448108": "PEP",
	"732834105": "PG",
	"459200101": "IBM",
	"097023105": "BA",
	"742718109": "RTX",
	"742718":    "RTX",
	"437076102": "HD",
	"931142103": "WMT",
	"438516106": "HON",
	"254687106": "DIS",
	"912093108": "UNH",
	"460690100": "JNJ",
	"58933Y105": "MRK",
	"002824100": "ABT",
	"002921109": "ABBV",
	"339750101": "LLY",
	"698435105": "PFE",
	"478160104": "JCI",
	"92343V104": "VZ",
	"00206R102": "T",
	"742556105": "PRU",
	"855244109": "SQ",
	"064058100": "BAX",
	"651639106": "NFLX",
	"64110D104": "NET",
	"023608102": "AMGN",
	"655044105": "NKE",
	"717081103": "PFG",
	"891482102": "TD",
	"25470F104": "DKNG",
	"52736R102": "LVS",
	"88339J105": "TMUS",
	"025816109": "AXP",
	"369550108": "GE",
	"149123101": "CAT",
	"78467J100": "SPG",
	"91324P102": "UPS",
	"268648102": "EL",
	"78462F103": "S&P",
	"31428X106": "FDX",
	"631103108": "NOC",
	"526057104": "LMT",
	"57060D108": "MA",
	"92826C839": "V",
	"44920010":  "IAC",
	"49456B101": "KHC",
	"456788108": "INTU",
	"097693109": "ADBE",
	"76657R106": "RIVN",
	"650135108": "NIO",
	"811156100": "SCHW",
	"15135B101": "CEG",
	"637640103": "NEE",
	"03218560":  "AIG",
	"458140100": "INTC",
	"009728109": "AMD",
	"72352L106": "PINS",
	"80105N105": "SNAP",
	"883556102": "TWTR",
	"78410G104": "SE",
	"74164M108": "BIDU",
	"01609W102": "BABA",
	"87936U109": "TME",
	"98421M106": "VIPS",
	"67020Y100": "NVS",
	"145220105": "CVX",
	"30231G102": "XOM",
	"202795101": "COP",
	"26875P101": "EOG",
	"263534109": "ECL",
	"36467W109": "GDX",
	"742514509": "PSX",
	"872540109": "TSN",
	"883948100": "TGT",
	"902494103": "TJX",
	"460148109": "JD",
	"548661107": "LOW",
	"84265V105": "SBUX",
	"584977":    "MMM",
	"009158106": "ADM",
	"06738G103": "BIIB",
	"74159L101": "REGN",
	"900111204": "VRTX",
	"60871R209": "MRNA",
	"345370860": "FCX",
	"643659105": "NEM",
	"670346105": "OXY",
	"867914":    "SLB",
	"693475105": "PSA",
	"895126505": "WBA",
	"500754106": "KR",
	"78814P168": "MELI",
	"18915M107": "CLOV",
	"67085R104": "OKTA",
	"09857L108": "SNOW",
	"156700106": "CRM",
	"20030N101": "COIN",
	"57667L107": "MSTR",
}

// TickerForCUSIP resolves a CUSIP to its trading symbol. An empty result
// means the mapping is unknown, which is a valid state, not an error.
func TickerForCUSIP(cusip string) string {
	return cusipToTicker[cusip]
}
