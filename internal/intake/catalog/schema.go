// internal/intake/catalog/schema.go
package catalog

import (
	"strings"

	"candidate-intake/internal/common/errors"
	"candidate-intake/internal/intake/draft"

	"github.com/xeipuuv/gojsonschema"
)

// submissionSchema is the final shape check run on the outgoing payload just
// before it is handed to the submission sink. It is a safety net behind the
// step validators, not a replacement for them.
const submissionSchema = `{
	"type": "object",
	"required": ["jobOpeningId", "personal", "totalYearsOfExperience", "education", "resumeName", "resumeUrl"],
	"properties": {
		"jobOpeningId": {"type": "string", "minLength": 1},
		"personal": {
			"type": "object",
			"required": ["firstName", "lastName", "email", "countryCode", "phone"],
			"properties": {
				"firstName": {"type": "string", "minLength": 1},
				"lastName": {"type": "string", "minLength": 1},
				"email": {"type": "string", "pattern": "^[^\\s@]+@[^\\s@]+\\.[^\\s@]+$"},
				"countryCode": {"type": "string", "pattern": "^\\+?[0-9]{1,4}$"},
				"phone": {"type": "string", "pattern": "^[0-9]{10}$"}
			}
		},
		"totalYearsOfExperience": {"type": "number", "minimum": 0},
		"education": {"type": "array", "minItems": 1, "maxItems": 5},
		"resumeName": {"type": "string", "minLength": 1},
		"resumeUrl": {"type": "string", "pattern": "^https?://"}
	}
}`

var submissionSchemaLoader = gojsonschema.NewStringLoader(submissionSchema)

// ValidateSubmissionPayload checks the outgoing payload against the
// submission schema.
func ValidateSubmissionPayload(payload draft.SubmissionPayload) error {
	result, err := gojsonschema.Validate(submissionSchemaLoader, gojsonschema.NewGoLoader(payload))
	if err != nil {
		return errors.NewPayloadSchemaInvalidError(err.Error())
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return errors.NewPayloadSchemaInvalidError(strings.Join(details, "; "))
	}
	return nil
}
