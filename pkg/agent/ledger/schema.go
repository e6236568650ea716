package ledger

import "time"

// Schema creates the runs table. A row is upserted on every transition of a run.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    stage TEXT NOT NULL,
    error_kind TEXT,
    error_message TEXT,
    image_cid TEXT,
    metadata_cid TEXT,
    token_uri TEXT,
    tx_hash TEXT,
    confirmed INTEGER NOT NULL DEFAULT 0,
    started_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_stage ON runs(stage);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

type Record struct {
	Id           string    `json:"runId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Stage        string    `json:"stage"`
	ErrorKind    string    `json:"errorKind,omitempty"`
	ErrorMessage string    `json:"error,omitempty"`
	ImageCid     string    `json:"imageCid,omitempty"`
	MetadataCid  string    `json:"metadataCid,omitempty"`
	TokenUri     string    `json:"tokenUri,omitempty"`
	TxHash       string    `json:"txHash,omitempty"`
	Confirmed    bool      `json:"transactionConfirmed"`
	StartedAt    time.Time `json:"startedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
