package client

import (
	"fmt"
	"strings"

	"github.com/arogya/arogya/internal/domain/diagnosis"
	"github.com/arogya/arogya/pkg/mailbox"
)

// ErrNoResult is returned when the mailbox holds no diagnosis to present.
var ErrNoResult = fmt.Errorf("no diagnosis data found, please complete the form first")

// Presenter renders a diagnosis result as plain text. Missing sections are
// skipped rather than rendered empty, so partial model output still produces
// a readable report.
type Presenter struct {
	results *mailbox.Mailbox[diagnosis.Result]
}

func NewPresenter(results *mailbox.Mailbox[diagnosis.Result]) *Presenter {
	return &Presenter{results: results}
}

// Render takes the pending result and formats it. A second call without a
// new submission returns ErrNoResult.
func (p *Presenter) Render() (string, error) {
	result, ok := p.results.TakeOnce()
	if !ok {
		return "", ErrNoResult
	}
	return Format(&result), nil
}

// Format renders a result defensively: nil slices and empty fields are
// tolerated.
func Format(r *diagnosis.Result) string {
	var b strings.Builder

	b.WriteString("Your Health Report\n")
	b.WriteString("==================\n\n")

	if r.Diagnosis != "" {
		b.WriteString("Possible Diagnosis\n")
		fmt.Fprintf(&b, "  %s\n\n", r.Diagnosis)
	}

	writeList(&b, "Home Remedies", r.Remedies)
	writeList(&b, "Precautions", r.Precautions)
	writeList(&b, "Recommended Specialists", r.Specialists)

	if len(r.Hospitals) > 0 {
		b.WriteString("Nearby Hospitals\n")
		for _, h := range r.Hospitals {
			fmt.Fprintf(&b, "  %s", h.Name)
			if h.Rating > 0 {
				fmt.Fprintf(&b, " (%.1f, %d reviews)", h.Rating, h.UserRatingsTotal)
			}
			if h.Address != "" {
				fmt.Fprintf(&b, " - %s", h.Address)
			}
			b.WriteByte('\n')
			if h.MapURL != "" {
				fmt.Fprintf(&b, "    %s\n", h.MapURL)
			}
		}
		b.WriteByte('\n')
	}

	if r.Note != "" {
		fmt.Fprintf(&b, "Note: %s\n", r.Note)
	}

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(title + "\n")
	for _, item := range items {
		if item == "" {
			continue
		}
		fmt.Fprintf(b, "  - %s\n", item)
	}
	b.WriteByte('\n')
}
