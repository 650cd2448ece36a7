package convention

import "fmt"

// NoticeKind classifies a non-fatal finding.
type NoticeKind string

const (
	// NoticeLoadWarning is a construct dropped while loading the schema.
	NoticeLoadWarning NoticeKind = "LoadWarning"
	// NoticeNoServices means the package declares no service; nothing is generated.
	NoticeNoServices NoticeKind = "NoServices"
	// NoticeNoMethods means the package services declare no method; nothing is generated.
	NoticeNoMethods NoticeKind = "NoMethods"
	// NoticePathCollision means two methods share a verb and path; the later one wins.
	NoticePathCollision NoticeKind = "PathCollision"
	// NoticeSchemaCollision means two types share a simple name; the later one wins.
	NoticeSchemaCollision NoticeKind = "SchemaCollision"
	// NoticeDegradedQueryParams means a GET request type did not resolve to a message and
	// its query parameters were skipped.
	NoticeDegradedQueryParams NoticeKind = "DegradedQueryParams"
	// NoticeLintWarning is a finding of the OpenAPI linter.
	NoticeLintWarning NoticeKind = "LintWarning"
)

// Notice is a non-fatal finding reported alongside generated output.
type Notice struct {
	Kind    NoticeKind `json:"kind" yaml:"kind"`
	Subject string     `json:"subject" yaml:"subject"`
	Message string     `json:"message" yaml:"message"`
}

// String returns "kind subject: message".
func (n Notice) String() string {
	if n.Subject == "" {
		return fmt.Sprintf("%s: %s", n.Kind, n.Message)
	}
	return fmt.Sprintf("%s %s: %s", n.Kind, n.Subject, n.Message)
}

// ConflictNotices turns route collisions into notices.
func ConflictNotices(conflicts []Conflict) []Notice {
	out := make([]Notice, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, Notice{
			Kind:    NoticePathCollision,
			Subject: c.HTTPMethod + " " + c.HTTPPath,
			Message: fmt.Sprintf("%s overrides %s", c.Winner, c.Shadowed),
		})
	}
	return out
}
