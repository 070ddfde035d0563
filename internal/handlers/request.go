package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator/v10"
	apperrors "github.com/zfogg/factoryfeed/internal/errors"
)

// ID is a numeric identifier that clients may send either as a JSON number or
// as a numeric string.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
		if len(data) == 0 {
			*id = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = ID(n)
	return nil
}

type createPostBody struct {
	UserID      ID      `json:"userId" validate:"required"`
	Content     string  `json:"content" validate:"required"`
	Achievement *string `json:"achievement"`
}

type toggleLikeBody struct {
	PostID ID `json:"postId" validate:"required"`
	UserID ID `json:"userId" validate:"required"`
}

type addCommentBody struct {
	PostID  ID     `json:"postId" validate:"required"`
	UserID  ID     `json:"userId" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// request is the part of a proxy event the actions read
type request struct {
	query map[string]string
	body  string
	b64   bool
}

func newRequest(ev events.APIGatewayProxyRequest) *request {
	return &request{
		query: ev.QueryStringParameters,
		body:  ev.Body,
		b64:   ev.IsBase64Encoded,
	}
}

// queryID reads a required numeric query parameter
func (r *request) queryID(name string) (int64, error) {
	raw := strings.TrimSpace(r.query[name])
	if raw == "" {
		return 0, apperrors.ValidationError(name, name+" is required")
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.ValidationError(name, name+" must be an integer")
	}
	return n, nil
}

// decodeBody parses the JSON body into dst and validates it. Any failure is
// reported with the action's own message.
func (r *request) decodeBody(v *validator.Validate, dst interface{}, message string) error {
	raw := []byte(r.body)
	if r.b64 {
		decoded, err := base64.StdEncoding.DecodeString(r.body)
		if err != nil {
			return apperrors.ValidationError("body", "invalid base64 body")
		}
		raw = decoded
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.ValidationError("body", "invalid JSON body: "+err.Error())
	}

	trimContent(dst)

	if err := v.Struct(dst); err != nil {
		field := "body"
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field = verrs[0].Field()
		}
		return apperrors.ValidationError(field, message)
	}
	return nil
}

func trimContent(dst interface{}) {
	switch b := dst.(type) {
	case *createPostBody:
		b.Content = strings.TrimSpace(b.Content)
	case *addCommentBody:
		b.Content = strings.TrimSpace(b.Content)
	}
}

// newValidator returns a validator that reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
