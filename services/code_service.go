package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"go/parser"
	"go/scanner"
	"go/token"
	"net/http"
	"strings"

	apiError "github.com/techagentng/opsconsole/errors"
	"github.com/techagentng/opsconsole/models"
	"gopkg.in/yaml.v3"
)

// CodeService formats and validates snippets submitted from the console.
// The heavy lifting belongs to the language toolchains; this service is
// routing glue around them.
type CodeService interface {
	FormatCode(language, source string) (*models.FormatCodeResponse, *apiError.Error)
	ValidateCode(language, source string) (*models.ValidateCodeResponse, *apiError.Error)
}

type codeService struct{}

func NewCodeService() CodeService {
	return &codeService{}
}

func (s *codeService) FormatCode(language, source string) (*models.FormatCodeResponse, *apiError.Error) {
	var formatted string
	switch language {
	case "go", "golang":
		out, err := format.Source([]byte(source))
		if err != nil {
			return nil, apiError.New(fmt.Sprintf("source does not parse: %v", err), http.StatusBadRequest)
		}
		formatted = string(out)
	case "json":
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(source), "", "  "); err != nil {
			return nil, apiError.New(fmt.Sprintf("invalid json: %v", err), http.StatusBadRequest)
		}
		formatted = buf.String()
	case "yaml", "yml":
		var doc interface{}
		if err := yaml.Unmarshal([]byte(source), &doc); err != nil {
			return nil, apiError.New(fmt.Sprintf("invalid yaml: %v", err), http.StatusBadRequest)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, apiError.ErrInternalServerError
		}
		formatted = string(out)
	default:
		return nil, apiError.New(fmt.Sprintf("unsupported language %q", language), http.StatusBadRequest)
	}

	return &models.FormatCodeResponse{
		Language:  language,
		Formatted: formatted,
		Changed:   formatted != source,
	}, nil
}

func (s *codeService) ValidateCode(language, source string) (*models.ValidateCodeResponse, *apiError.Error) {
	issues := make([]models.SyntaxIssue, 0)

	switch language {
	case "go", "golang":
		fset := token.NewFileSet()
		_, err := parser.ParseFile(fset, "snippet.go", source, parser.AllErrors)
		if err != nil {
			if list, ok := err.(scanner.ErrorList); ok {
				for _, e := range list {
					issues = append(issues, models.SyntaxIssue{
						Line:    e.Pos.Line,
						Column:  e.Pos.Column,
						Message: e.Msg,
					})
				}
			} else {
				issues = append(issues, models.SyntaxIssue{Line: 1, Column: 1, Message: err.Error()})
			}
		}
	case "json":
		var doc interface{}
		if err := json.Unmarshal([]byte(source), &doc); err != nil {
			issues = append(issues, jsonIssue(source, err))
		}
	case "yaml", "yml":
		var doc interface{}
		if err := yaml.Unmarshal([]byte(source), &doc); err != nil {
			issues = append(issues, models.SyntaxIssue{Line: 1, Column: 1, Message: err.Error()})
		}
	default:
		return nil, apiError.New(fmt.Sprintf("unsupported language %q", language), http.StatusBadRequest)
	}

	return &models.ValidateCodeResponse{
		Language: language,
		Valid:    len(issues) == 0,
		Issues:   issues,
	}, nil
}

// jsonIssue converts the byte offset in a json error to a line and column
func jsonIssue(source string, err error) models.SyntaxIssue {
	var offset int64
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
	case *json.UnmarshalTypeError:
		offset = e.Offset
	}

	line, column := 1, 1
	if offset > 0 && offset <= int64(len(source)) {
		prefix := source[:offset]
		line = strings.Count(prefix, "\n") + 1
		if idx := strings.LastIndex(prefix, "\n"); idx >= 0 {
			column = len(prefix) - idx
		} else {
			column = len(prefix)
		}
	}
	return models.SyntaxIssue{Line: line, Column: column, Message: err.Error()}
}
