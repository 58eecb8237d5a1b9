// Package recognition defines the recognition result model, its boundary
// validation, and the presentation mapping used by both the CLI and the web
// dashboard.
package recognition

import (
	"fmt"
	"time"
)

// Status classifies a recognition outcome. The status fully determines which
// other fields of a Result are meaningful.
type Status string

const (
	StatusSuccess     Status = "success"
	StatusNoMatch     Status = "no_match"
	StatusNoFace      Status = "no_face"
	StatusError       Status = "error"
	StatusVerified    Status = "verified"
	StatusNotVerified Status = "not_verified"
)

// FaceLocation is the bounding box of the detected face in source pixels.
type FaceLocation struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// Result is the backend's verdict on a submitted image. Produced once per
// submission and immutable afterwards.
type Result struct {
	Recognized        bool          `json:"recognized"`
	PersonID          string        `json:"person_id,omitempty"`
	PersonName        string        `json:"person_name,omitempty"`
	Confidence        *float64      `json:"confidence,omitempty"`
	Status            Status        `json:"status"`
	Message           string        `json:"message,omitempty"`
	ProcessingSeconds *float64      `json:"processing_time,omitempty"`
	FaceLocation      *FaceLocation `json:"face_location,omitempty"`
}

// Normalize validates a result at the network boundary and coerces it into
// the documented shape. It enforces the field/status coupling: success
// carries a name and a confidence in [0,1]; no_face and no_match never carry
// a positive confidence; an unrecognized status becomes an error result so
// the UI always has something renderable.
func Normalize(r Result) (Result, error) {
	switch r.Status {
	case StatusSuccess, StatusVerified:
		if r.PersonName == "" {
			return errResult(r, "backend returned a match without a person name"),
				fmt.Errorf("invalid result: status %q without person_name", r.Status)
		}
		if r.Confidence == nil {
			return errResult(r, "backend returned a match without a confidence"),
				fmt.Errorf("invalid result: status %q without confidence", r.Status)
		}
		if *r.Confidence < 0 || *r.Confidence > 1 {
			return errResult(r, "backend returned a confidence outside [0,1]"),
				fmt.Errorf("invalid result: confidence %f out of range", *r.Confidence)
		}
		r.Recognized = true
		return r, nil

	case StatusNoMatch, StatusNoFace, StatusNotVerified:
		r.Recognized = false
		r.PersonID = ""
		r.PersonName = ""
		if r.Confidence != nil && *r.Confidence > 0 {
			// A non-match must not present itself with a confidence.
			r.Confidence = nil
		}
		if r.Message == "" {
			r.Message = defaultMessage(r.Status)
		}
		return r, nil

	case StatusError:
		r.Recognized = false
		r.Confidence = nil
		if r.Message == "" {
			r.Message = "the recognition service reported a processing failure"
		}
		return r, nil

	default:
		return errResult(r, fmt.Sprintf("unknown result status %q", r.Status)),
			fmt.Errorf("invalid result: unknown status %q", r.Status)
	}
}

func errResult(r Result, message string) Result {
	return Result{
		Status:            StatusError,
		Message:           message,
		ProcessingSeconds: r.ProcessingSeconds,
	}
}

func defaultMessage(s Status) string {
	switch s {
	case StatusNoMatch:
		return "face detected but no matching person found"
	case StatusNoFace:
		return "no face detected in the submitted image"
	case StatusNotVerified:
		return "the face does not match the requested person"
	default:
		return ""
	}
}

// Entry is a history record: a normalized result plus capture metadata.
type Entry struct {
	ID     string    `json:"id"`
	Result Result    `json:"result"`
	Source string    `json:"source"` // "upload" or "webcam"
	At     time.Time `json:"at"`
}
