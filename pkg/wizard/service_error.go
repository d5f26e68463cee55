package wizard

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/gateway"
)

// ServiceErrorParam carries the encoded ServiceError on the error page URL.
const ServiceErrorParam = "serviceErrorProps"

// Fixed messages shown on the service error page.
const (
	MessageGeneric  = "Something went wrong while processing your request. Please try again later."
	MessageNotFound = "The question or section you were looking for could not be found."
	MessageConflict = "This form was changed by someone else while you were working on it. Go back and try again."
)

// LinkAttributes is the return link on the service error page.
type LinkAttributes struct {
	Href     string `json:"href"`
	LinkText string `json:"linkText"`
}

// ServiceError is the payload of the service error page.
type ServiceError struct {
	ErrorInformation string         `json:"errorInformation"`
	LinkAttributes   LinkAttributes `json:"linkAttributes"`
}

// Location is the redirect target that displays e.
func (e ServiceError) Location() string {
	raw, err := json.Marshal(e)
	if err != nil {
		return ServiceErrorPath
	}
	return ServiceErrorPath + "?" + url.Values{ServiceErrorParam: {string(raw)}}.Encode()
}

// ParseServiceError decodes the payload from the error page query. Missing or
// malformed payloads, and links leaving the site, fall back to defaults.
func ParseServiceError(query url.Values) ServiceError {
	out := ServiceError{
		ErrorInformation: MessageGeneric,
		LinkAttributes:   LinkAttributes{Href: "/", LinkText: "Back to the start"},
	}
	raw := strings.TrimSpace(query.Get(ServiceErrorParam))
	if raw == "" {
		return out
	}
	var parsed ServiceError
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return out
	}
	if msg := strings.TrimSpace(parsed.ErrorInformation); msg != "" {
		out.ErrorInformation = msg
	}
	href := strings.TrimSpace(parsed.LinkAttributes.Href)
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") && !strings.Contains(href, `\`) {
		out.LinkAttributes.Href = href
		if text := strings.TrimSpace(parsed.LinkAttributes.LinkText); text != "" {
			out.LinkAttributes.LinkText = text
		}
	}
	return out
}

// serviceErrorFor picks the message and return link for a failure.
func serviceErrorFor(err error, appID, sectionID string, c Continuity) ServiceError {
	if gateway.IsNotFound(err) {
		return ServiceError{
			ErrorInformation: MessageNotFound,
			LinkAttributes:   LinkAttributes{Href: DashboardPath(appID), LinkText: "Back to the dashboard"},
		}
	}
	return ServiceError{
		ErrorInformation: messageFor(err),
		LinkAttributes:   returnLink(appID, sectionID, c),
	}
}

func messageFor(err error) string {
	switch {
	case gateway.IsNotFound(err):
		return MessageNotFound
	case errors.Is(err, gateway.ErrVersionConflict):
		return MessageConflict
	default:
		return MessageGeneric
	}
}

func returnLink(appID, sectionID string, c Continuity) LinkAttributes {
	if c.ToDashboard() || sectionID == "" {
		return LinkAttributes{Href: DashboardPath(appID), LinkText: "Back to the dashboard"}
	}
	return LinkAttributes{Href: SectionPath(appID, sectionID), LinkText: "Back to the section"}
}
