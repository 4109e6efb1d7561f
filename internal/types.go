package internal

import "time"

// HistoryRecord is one completed translation as written to the history log.
type HistoryRecord struct {
	ID         string `json:"id"`
	Input      string `json:"input"`
	SourceText string `json:"source_text"`
	// SourceLang is the detected source language code, empty when unknown.
	SourceLang     string        `json:"source_lang"`
	TargetLang     string        `json:"target_lang"`
	TargetName     string        `json:"target_name"`
	Engine         string        `json:"engine"`
	Route          string        `json:"route"`
	Service        string        `json:"service"`
	TranslatedText string        `json:"translated_text"`
	FromCache      bool          `json:"from_cache"`
	Latency        time.Duration `json:"latency"`
	Timestamp      time.Time     `json:"timestamp"`
}
