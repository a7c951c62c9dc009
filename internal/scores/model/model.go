package model

import "scenic-score/internal/fileio"

// ScoreRecord is the best score found in one file during the first pass.
type ScoreRecord struct {
	File string  `json:"file"`
	Max  float64 `json:"max"`
}

// CityCount is how many attractions of one city sit at the global maximum.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// Report is the outcome of one two-pass analysis.
type Report struct {
	DataDir      string        `json:"dataDir"`
	ScoreColumn  string        `json:"scoreColumn"`
	Resolved     bool          `json:"scoreColumnResolved"` // false: default label was used
	Files        int           `json:"files"`
	GlobalMax    float64       `json:"globalMax"`
	TotalCount   int           `json:"totalCount"`
	Records      []ScoreRecord `json:"records"`
	Counts       []CityCount   `json:"counts"`  // encounter order
	Ranking      []CityCount   `json:"ranking"` // top N, count desc
	ProblemFiles []string      `json:"problemFiles"`
	Warnings     []string      `json:"warnings,omitempty"`
}

type ValueCount struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// FileSummary describes one loaded file and its score column.
type FileSummary struct {
	File           string       `json:"file"`
	Encoding       string       `json:"encoding"`
	Tried          []string     `json:"tried"` // encodings in the order they were attempted
	Repaired       bool         `json:"repaired"`
	RepairedFields int          `json:"repairedFields,omitempty"`
	Rows           int          `json:"rows"`
	Columns        []string     `json:"columns"`
	ScoreColumn    string       `json:"scoreColumn,omitempty"`
	ScoreMax       *float64     `json:"scoreMax,omitempty"`
	ScoreMin       *float64     `json:"scoreMin,omitempty"`
	ScoreMean      *float64     `json:"scoreMean,omitempty"`
	Distribution   []ValueCount `json:"distribution,omitempty"`
	MissingCells   int          `json:"missingCells"`
	Preview        [][]string   `json:"preview"`
}

// ProbeReport groups diagnostic probes of the files a run could not read.
type ProbeReport struct {
	DataDir string                `json:"dataDir"`
	Results []*fileio.ProbeResult `json:"results"`
	Errors  map[string]string     `json:"errors,omitempty"` // file -> why the probe itself failed
}
