package edgar

// --- Submissions directory (data.sec.gov/submissions) ---

// submissionsResponse is the filer submissions document. The filing list is
// column-oriented: parallel arrays indexed together.
type submissionsResponse struct {
	CIK     string         `json:"cik"`
	Name    string         `json:"name"`
	Filings filingsSection `json:"filings"`
}

type filingsSection struct {
	Recent filingColumns      `json:"recent"`
	Files  []continuationFile `json:"files"`
}

type filingColumns struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// continuationFile points at a paginated overflow file holding older
// filings in the same column layout.
type continuationFile struct {
	Name        string `json:"name"`
	FilingCount int    `json:"filingCount"`
	FilingFrom  string `json:"filingFrom"`
	FilingTo    string `json:"filingTo"`
}

// continuationResponse is the body of one overflow file: the columns appear
// at the top level rather than under filings.recent.
type continuationResponse filingColumns

// --- Filing index manifest ({accession}-index.json) ---

type indexResponse struct {
	Documents []indexDocument `json:"documents"`
}

type indexDocument struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"documentDescription"`
}
