package classifier

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Risk levels returned by the model.
const (
	RiskLow      = "LOW"
	RiskMedium   = "MEDIUM"
	RiskHigh     = "HIGH"
	RiskCritical = "CRITICAL"
)

// Confidence accepts either a JSON number or a string such as "85" or "85%".
type Confidence string

// UnmarshalJSON implements json.Unmarshaler.
func (c *Confidence) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*c = Confidence(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("confidence: %w", err)
	}
	*c = Confidence(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%")))
	return nil
}

// Percent returns the confidence as a number, or false when it is not numeric.
func (c Confidence) Percent() (float64, bool) {
	f, err := strconv.ParseFloat(string(c), 64)
	return f, err == nil
}

// Report is the structured result of a classification.
type Report struct {
	RiskLevel       string     `json:"risk_level"`
	Confidence      Confidence `json:"confidence"`
	Classification  string     `json:"classification"`
	PrimaryConcerns []string   `json:"primary_concerns"`
	Analysis        string     `json:"analysis"`
	Recommendations []string   `json:"recommendations"`
	// Raw holds the unparsed model reply.
	Raw string `json:"-"`
	// Structured is false when the reply carried no parsable JSON object.
	Structured bool `json:"-"`
}

// HighRisk reports whether the result warrants a notification.
func (r Report) HighRisk() bool {
	switch strings.ToUpper(r.RiskLevel) {
	case RiskHigh, RiskCritical:
		return true
	}
	return false
}

// ParseReport extracts the first-to-last brace span of text and decodes it.
// When no object can be decoded the report carries only Raw.
func ParseReport(text string) Report {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Report{Raw: text}
	}
	var r Report
	if err := json.Unmarshal([]byte(text[start:end+1]), &r); err != nil {
		return Report{Raw: text}
	}
	r.Raw = text
	r.Structured = true
	return r
}

// Markdown renders the report for display. Unstructured replies are returned as-is.
func (r Report) Markdown() string {
	if !r.Structured {
		return r.Raw
	}
	var b strings.Builder
	b.WriteString("# Fraud Analysis Report\n\n")
	b.WriteString("## Risk Assessment\n")
	fmt.Fprintf(&b, "**Risk Level:** %s  \n", r.RiskLevel)
	fmt.Fprintf(&b, "**Confidence:** %s%%  \n", r.Confidence)
	fmt.Fprintf(&b, "**Classification:** %s\n\n", r.Classification)
	b.WriteString("## Primary Concerns\n")
	writeBullets(&b, r.PrimaryConcerns)
	b.WriteString("\n## Detailed Analysis\n")
	b.WriteString(r.Analysis)
	b.WriteString("\n\n## Recommendations\n")
	writeBullets(&b, r.Recommendations)
	return strings.TrimRight(b.String(), "\n")
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		b.WriteString("• ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}
