package edgar

import "github.com/fundwatch/fundwatch/pkg/models"

// Funds is the static registry of tracked filers: display name to
// zero-padded CIK. Defined at process start, never mutated.
var Funds = []models.Fund{
	// Mega funds
	{Name: "Berkshire Hathaway", CIK: "0001067983"},
	{Name: "Vanguard Group", CIK: "0000102909"},
	{Name: "BlackRock", CIK: "0002012383"},
	{Name: "State Street", CIK: "0000093751"},
	{Name: "Fidelity (FMR)", CIK: "0000315066"},

	// Macro / multi-strategy
	{Name: "Bridgewater Associates", CIK: "0001350694"},
	{Name: "Citadel Advisors", CIK: "0001423053"},
	{Name: "Millennium Management", CIK: "0001273087"},
	{Name: "Point72 Asset Management", CIK: "0001603466"},
	{Name: "DE Shaw", CIK: "0001009207"},

	// Tiger cubs & growth equity
	{Name: "Tiger Global", CIK: "0001167483"},
	{Name: "Coatue Management", CIK: "0001336528"},
	{Name: "Viking Global", CIK: "0001103804"},
	{Name: "Lone Pine Capital", CIK: "0001061165"},
	{Name: "Maverick Capital", CIK: "0000934639"},

	// Value / activist
	{Name: "Third Point", CIK: "0001040273"},
	{Name: "Pershing Square", CIK: "0002026053"},
	{Name: "Baupost Group", CIK: "0001061768"},
	{Name: "Elliott Management", CIK: "0001791786"},
	{Name: "Starboard Value", CIK: "0001517137"},

	// Growth / tech focus
	{Name: "Soros Fund Management", CIK: "0001029160"},
	{Name: "Duquesne Family Office", CIK: "0001536411"},
	{Name: "ARK Investment", CIK: "0001697748"},
	{Name: "Whale Rock Capital", CIK: "0001387322"},

	// Quant / systematic
	{Name: "Renaissance Technologies", CIK: "0001037389"},
	{Name: "Two Sigma Investments", CIK: "0001179392"},
	{Name: "AQR Capital", CIK: "0001167557"},
}
