// internal/intake/draft/reference.go
package draft

import "fmt"

// ResumeReference is the two-phase file handle: a session-local ephemeral
// handle before the durable upload, a backend-retrievable URL after. Code
// must switch on the concrete type, never sniff string prefixes.
type ResumeReference interface {
	isResumeReference()
	String() string
}

// Ephemeral is a session-only handle to a just-selected file. It is valid for
// presence checks and preview but cannot be sent to the backend as-is.
type Ephemeral struct {
	Handle string
}

func (Ephemeral) isResumeReference() {}

func (e Ephemeral) String() string {
	return fmt.Sprintf("ephemeral:%s", e.Handle)
}

// Durable is a backend-retrievable location of an uploaded resume.
type Durable struct {
	URL string
}

func (Durable) isResumeReference() {}

func (d Durable) String() string {
	return d.URL
}

// IsDurable reports whether ref is a resolved durable reference.
func IsDurable(ref ResumeReference) bool {
	_, ok := ref.(Durable)
	return ok
}

// IsEphemeral reports whether ref is a pre-upload ephemeral reference.
func IsEphemeral(ref ResumeReference) bool {
	_, ok := ref.(Ephemeral)
	return ok
}
