package recognition

import (
	"fmt"
	"math"
)

// Presentation is the status-specific rendering of a result. It is a pure
// mapping; handlers and commands render it without further branching.
type Presentation struct {
	Icon              string `json:"icon"`
	Color             string `json:"color"`
	Title             string `json:"title"`
	Message           string `json:"message"`
	ConfidencePercent *int   `json:"confidence_percent,omitempty"`
	ProcessingTime    string `json:"processing_time,omitempty"`
}

// Present maps a normalized result to its presentation. The confidence bar
// appears only for a successful match; the processing-time readout appears
// whenever the backend reported one, regardless of status.
func Present(r Result) Presentation {
	p := statusPresentation(r)

	if (r.Status == StatusSuccess || r.Status == StatusVerified) && r.Confidence != nil {
		pct := int(math.Round(*r.Confidence * 100))
		p.ConfidencePercent = &pct
	}

	if r.ProcessingSeconds != nil {
		p.ProcessingTime = fmt.Sprintf("%dms", int(math.Round(*r.ProcessingSeconds*1000)))
	}

	return p
}

func statusPresentation(r Result) Presentation {
	switch r.Status {
	case StatusSuccess:
		return Presentation{
			Icon:    "check-circle",
			Color:   "green",
			Title:   r.PersonName,
			Message: "person recognized",
		}
	case StatusVerified:
		return Presentation{
			Icon:    "shield-check",
			Color:   "green",
			Title:   r.PersonName,
			Message: "identity verified",
		}
	case StatusNoMatch:
		return Presentation{
			Icon:    "user-x",
			Color:   "yellow",
			Title:   "No match",
			Message: r.Message,
		}
	case StatusNoFace:
		return Presentation{
			Icon:    "image-off",
			Color:   "gray",
			Title:   "No face detected",
			Message: r.Message,
		}
	case StatusNotVerified:
		return Presentation{
			Icon:    "shield-x",
			Color:   "yellow",
			Title:   "Not verified",
			Message: r.Message,
		}
	default:
		return Presentation{
			Icon:    "alert-triangle",
			Color:   "red",
			Title:   "Recognition failed",
			Message: r.Message,
		}
	}
}
