package teams

const (
	// Unknown marks a team token missing from the mapping.
	Unknown = "Unknown"
	// MultiTeam marks players who appeared for more than one team in a season.
	MultiTeam = "None"
)

// canonical lists the 32 current franchise names.
var canonical = []string{
	"Arizona Cardinals", "Atlanta Falcons", "Baltimore Ravens", "Buffalo Bills",
	"Carolina Panthers", "Chicago Bears", "Cincinnati Bengals", "Cleveland Browns",
	"Dallas Cowboys", "Denver Broncos", "Detroit Lions", "Green Bay Packers",
	"Houston Texans", "Indianapolis Colts", "Jacksonville Jaguars", "Kansas City Chiefs",
	"Las Vegas Raiders", "Los Angeles Chargers", "Los Angeles Rams", "Miami Dolphins",
	"Minnesota Vikings", "New England Patriots", "New Orleans Saints", "New York Giants",
	"New York Jets", "Philadelphia Eagles", "Pittsburgh Steelers", "San Francisco 49ers",
	"Seattle Seahawks", "Tampa Bay Buccaneers", "Tennessee Titans", "Washington Commanders",
}

// aliases maps abbreviations, nicknames, and historical names onto a
// canonical franchise. Canonical names themselves are added in New.
var aliases = map[string]string{
	"ARI": "Arizona Cardinals", "Ariz.": "Arizona Cardinals", "Cardinals": "Arizona Cardinals",
	"ATL": "Atlanta Falcons", "Atl.": "Atlanta Falcons", "Falcons": "Atlanta Falcons",
	"BAL": "Baltimore Ravens", "Balt.": "Baltimore Ravens", "Ravens": "Baltimore Ravens",
	"BUF": "Buffalo Bills", "Buff.": "Buffalo Bills", "Bills": "Buffalo Bills",
	"CAR": "Carolina Panthers", "Car.": "Carolina Panthers", "Panthers": "Carolina Panthers",
	"CHI": "Chicago Bears", "Chi.": "Chicago Bears", "Bears": "Chicago Bears",
	"CIN": "Cincinnati Bengals", "Cin.": "Cincinnati Bengals", "Bengals": "Cincinnati Bengals",
	"CLE": "Cleveland Browns", "Clev.": "Cleveland Browns", "Browns": "Cleveland Browns",
	"DAL": "Dallas Cowboys", "Dall.": "Dallas Cowboys", "Cowboys": "Dallas Cowboys",
	"DEN": "Denver Broncos", "Den.": "Denver Broncos", "Broncos": "Denver Broncos",
	"DET": "Detroit Lions", "Det.": "Detroit Lions", "Lions": "Detroit Lions",
	"GB": "Green Bay Packers", "GNB": "Green Bay Packers", "G.B.": "Green Bay Packers", "Packers": "Green Bay Packers",
	"HOU": "Houston Texans", "Hou.": "Houston Texans", "Texans": "Houston Texans",
	"IND": "Indianapolis Colts", "Ind.": "Indianapolis Colts", "Colts": "Indianapolis Colts",
	"JAX": "Jacksonville Jaguars", "Jax.": "Jacksonville Jaguars", "Jaguars": "Jacksonville Jaguars",
	"KAN": "Kansas City Chiefs", "KC": "Kansas City Chiefs", "K.C.": "Kansas City Chiefs", "Chiefs": "Kansas City Chiefs",

	"LV": "Las Vegas Raiders", "LVR": "Las Vegas Raiders", "Raiders": "Las Vegas Raiders",
	"OAK": "Las Vegas Raiders", "Oakland Raiders": "Las Vegas Raiders",
	"LAC": "Los Angeles Chargers", "SDG": "Los Angeles Chargers", "San Diego Chargers": "Los Angeles Chargers",
	"LAR": "Los Angeles Rams", "STL": "Los Angeles Rams", "St. Louis Rams": "Los Angeles Rams",

	"MIA": "Miami Dolphins", "Mia.": "Miami Dolphins", "Dolphins": "Miami Dolphins",
	"MIN": "Minnesota Vikings", "Minn.": "Minnesota Vikings", "Vikings": "Minnesota Vikings",
	"NE": "New England Patriots", "NWE": "New England Patriots", "Patriots": "New England Patriots",
	"NO": "New Orleans Saints", "NOR": "New Orleans Saints", "Saints": "New Orleans Saints",
	"NYG": "New York Giants", "Giants": "New York Giants",
	"NYJ": "New York Jets", "Jets": "New York Jets",
	"PHI": "Philadelphia Eagles", "Eagles": "Philadelphia Eagles",
	"PIT": "Pittsburgh Steelers", "Steelers": "Pittsburgh Steelers",
	"SF": "San Francisco 49ers", "SFO": "San Francisco 49ers", "49ers": "San Francisco 49ers",
	"SEA": "Seattle Seahawks", "Seahawks": "Seattle Seahawks",
	"TAM": "Tampa Bay Buccaneers", "TB": "Tampa Bay Buccaneers", "Buccaneers": "Tampa Bay Buccaneers",
	"TEN": "Tennessee Titans", "Titans": "Tennessee Titans",

	"WAS":                      "Washington Commanders",
	"Washington Redskins":      "Washington Commanders",
	"Washington Football Team": "Washington Commanders",
	"Commanders":               "Washington Commanders",
	"Washington":               "Washington Commanders",

	"2TM":  MultiTeam,
	"3TM":  MultiTeam,
	"None": MultiTeam,
}

// Canonical returns the canonical franchise names.
func Canonical() []string {
	out := make([]string, len(canonical))
	copy(out, canonical)
	return out
}
