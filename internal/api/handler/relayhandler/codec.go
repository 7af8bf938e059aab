package relayhandler

import (
	"encoding/json"
	"levercast/pkg/domain"
	"levercast/pkg/mailer"
	"levercast/pkg/serrors"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// MsgEmailRequired is returned when a submission has no usable email.
const MsgEmailRequired = "Email is required"

// DecodeSubmission parses a submission body. Malformed JSON and a null body
// are internal errors; any other body without a non-empty string "email"
// field is a bad request.
func DecodeSubmission(body []byte) (*domain.Submission, error) {
	if err := jx.DecodeBytes(body).Validate(); err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "invalid JSON body")
	}

	d := jx.DecodeBytes(body)
	switch d.Next() {
	case jx.Object:
	case jx.Null:
		return nil, serrors.With(serrors.ErrInternal, "cannot read properties of null (reading 'email')")
	default:
		return nil, serrors.With(serrors.ErrBadRequest, MsgEmailRequired)
	}

	var (
		email string
		found bool
	)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "email" {
			return d.Skip()
		}

		// duplicated keys: the last one wins
		found = false
		if d.Next() != jx.String {
			return d.Skip()
		}
		v, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "decode field \"email\"")
		}
		email, found = v, true

		return nil
	}); err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not decode submission")
	}

	if !found || email == "" {
		return nil, serrors.With(serrors.ErrBadRequest, MsgEmailRequired)
	}

	return &domain.Submission{Email: email}, nil
}

// EncodeSubmissionResult writes res as a JSON object.
func EncodeSubmissionResult(e *jx.Encoder, res *domain.SubmissionResult) {
	e.ObjStart()
	if res.Success {
		e.FieldStart("success")
		e.Bool(true)
	}
	if res.Data != nil {
		e.FieldStart("data")
		e.ObjStart()
		e.FieldStart("id")
		e.Str(res.Data.ID)
		e.ObjEnd()
	}
	if res.Error != "" {
		e.FieldStart("error")
		e.Str(res.Error)
	}
	if res.Details != nil {
		e.FieldStart("details")
		encodeDetails(e, res.Details)
	}
	e.ObjEnd()
}

func encodeDetails(e *jx.Encoder, details any) {
	switch v := details.(type) {
	case string:
		e.Str(v)
	case *mailer.ProviderError:
		e.ObjStart()
		e.FieldStart("statusCode")
		e.Int(v.StatusCode)
		if v.Name != "" {
			e.FieldStart("name")
			e.Str(v.Name)
		}
		e.FieldStart("message")
		e.Str(v.Message)
		e.ObjEnd()
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			e.Str(err.Error())

			return
		}
		e.Raw(raw)
	}
}
