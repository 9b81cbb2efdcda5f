// Package catalog declares every resource the API serves. A Definition is
// the whole of a module: its routes, table, id prefix, uniqueness rule,
// list filter, attachment policy and body schema. Adding a resource means
// adding an entry here, not new control flow.
package catalog

import (
	"regexp"

	"github.com/montasim/school-management-backend-sub003/schema"
)

// Attachment is the file policy for create/update bodies.
type Attachment int

const (
	AttachmentNone Attachment = iota
	AttachmentOptional
	AttachmentRequired
)

// Definition configures one resource module.
type Definition struct {
	Name        string // singular identifier, e.g. "category"
	Label       string // display name used in messages
	Plural      string // used in list messages and routes
	Route       string // path segment under /api/v1
	Collection  string // backing table
	IDPrefix    string
	UniqueField string // "" disables the uniqueness rule
	FilterField string // "" disables the list filter
	Attachment  Attachment
	Schema      schema.Schema
}

var (
	namePattern  = regexp.MustCompile(`^[\p{L}0-9][\p{L}0-9 .,'()&-]*$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 -]{6,20}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	linkPattern  = regexp.MustCompile(`^https?://\S+$`)
)

func nameField(name string, required bool) schema.Field {
	return schema.Field{
		Name:        name,
		Type:        schema.TypeString,
		Required:    required,
		MinLen:      3,
		MaxLen:      100,
		Pattern:     namePattern,
		PatternHint: "contains invalid characters",
	}
}

func textField(name string, required bool, maxLen int) schema.Field {
	return schema.Field{Name: name, Type: schema.TypeString, Required: required, MaxLen: maxLen}
}

func linkField(name string, required bool) schema.Field {
	return schema.Field{
		Name:        name,
		Type:        schema.TypeString,
		Required:    required,
		MaxLen:      500,
		Pattern:     linkPattern,
		PatternHint: "must be an http(s) link",
	}
}

// All returns every resource definition, in route order.
func All() []Definition {
	return []Definition{
		{
			Name: "category", Label: "Category", Plural: "categories",
			Route: "categories", Collection: "categories",
			IDPrefix: "category", UniqueField: "name",
			Schema: schema.Schema{Fields: []schema.Field{nameField("name", true)}},
		},
		{
			Name: "class", Label: "Class", Plural: "classes",
			Route: "classes", Collection: "classes",
			IDPrefix: "class", UniqueField: "name",
			Schema: schema.Schema{Fields: []schema.Field{nameField("name", true)}},
		},
		{
			Name: "student", Label: "Student", Plural: "students",
			Route: "students", Collection: "students",
			IDPrefix: "student", UniqueField: "roll", FilterField: "class",
			Attachment: AttachmentOptional,
			Schema: schema.Schema{Fields: []schema.Field{
				nameField("name", true),
				{Name: "roll", Type: schema.TypeInt, Required: true, Min: schema.Bound(1)},
				nameField("class", true),
				textField("section", false, 20),
				textField("guardianName", false, 100),
				{Name: "guardianPhone", Type: schema.TypeString, Pattern: phonePattern, PatternHint: "must be a phone number"},
			}},
		},
		{
			Name: "administration", Label: "Administration", Plural: "administrations",
			Route: "administrations", Collection: "administrations",
			IDPrefix: "administration", UniqueField: "name", FilterField: "category",
			Attachment: AttachmentOptional,
			Schema: schema.Schema{Fields: []schema.Field{
				nameField("name", true),
				nameField("designation", true),
				nameField("category", true),
			}},
		},
		{
			Name: "announcement", Label: "Announcement", Plural: "announcements",
			Route: "announcements", Collection: "announcements",
			IDPrefix: "announcement", UniqueField: "name",
			Schema: schema.Schema{Fields: []schema.Field{
				{Name: "name", Type: schema.TypeString, Required: true, MinLen: 3, MaxLen: 500},
			}},
		},
		{
			Name: "download", Label: "Download", Plural: "downloads",
			Route: "downloads", Collection: "downloads",
			IDPrefix: "download", UniqueField: "title",
			Attachment: AttachmentRequired,
			Schema: schema.Schema{Fields: []schema.Field{
				{Name: "title", Type: schema.TypeString, Required: true, MinLen: 3, MaxLen: 200},
				textField("description", false, 1000),
			}},
		},
		{
			Name: "notice", Label: "Notice", Plural: "notices",
			Route: "notices", Collection: "notices",
			IDPrefix: "notice", UniqueField: "title",
			Attachment: AttachmentRequired,
			Schema: schema.Schema{Fields: []schema.Field{
				{Name: "title", Type: schema.TypeString, Required: true, MinLen: 3, MaxLen: 200},
				textField("description", false, 1000),
			}},
		},
		{
			Name: "result", Label: "Result", Plural: "results",
			Route: "results", Collection: "results",
			IDPrefix: "result", UniqueField: "title", FilterField: "class",
			Attachment: AttachmentRequired,
			Schema: schema.Schema{Fields: []schema.Field{
				{Name: "title", Type: schema.TypeString, Required: true, MinLen: 3, MaxLen: 200},
				nameField("class", true),
				{Name: "year", Type: schema.TypeInt, Min: schema.Bound(1900), Max: schema.Bound(2100)},
			}},
		},
		{
			Name: "routine", Label: "Routine", Plural: "routines",
			Route: "routines", Collection: "routines",
			IDPrefix: "routine", UniqueField: "title", FilterField: "class",
			Attachment: AttachmentRequired,
			Schema: schema.Schema{Fields: []schema.Field{
				{Name: "title", Type: schema.TypeString, Required: true, MinLen: 3, MaxLen: 200},
				nameField("class", true),
			}},
		},
		{
			Name: "othersInformationCategory", Label: "Others information category", Plural: "others information categories",
			Route: "others-information-categories", Collection: "others_information_categories",
			IDPrefix: "othersInformationCategory", UniqueField: "name",
			Schema: schema.Schema{Fields: []schema.Field{nameField("name", true)}},
		},
		{
			Name: "othersInformation", Label: "Others information", Plural: "others information",
			Route: "others-information", Collection: "others_information",
			IDPrefix: "othersInformation", UniqueField: "title", FilterField: "category",
			Attachment: AttachmentOptional,
			Schema: schema.Schema{Fields: []schema.Field{
				{Name: "title", Type: schema.TypeString, Required: true, MinLen: 3, MaxLen: 200},
				nameField("category", true),
				textField("description", false, 5000),
			}},
		},
		{
			Name: "websiteContact", Label: "Website contact", Plural: "website contacts",
			Route: "website-contacts", Collection: "website_contacts",
			IDPrefix: "websiteContact", UniqueField: "email",
			Schema: schema.Schema{Fields: []schema.Field{
				textField("address", true, 500),
				{Name: "mobile", Type: schema.TypeString, Required: true, Pattern: phonePattern, PatternHint: "must be a phone number"},
				{Name: "phone", Type: schema.TypeString, Pattern: phonePattern, PatternHint: "must be a phone number"},
				{Name: "email", Type: schema.TypeString, Required: true, Pattern: emailPattern, PatternHint: "must be an email address"},
				linkField("website", false),
			}},
		},
		{
			Name: "websiteOfficialLink", Label: "Website official link", Plural: "website official links",
			Route: "website-official-links", Collection: "website_official_links",
			IDPrefix: "websiteOfficialLink", UniqueField: "title",
			Schema: schema.Schema{Fields: []schema.Field{
				{Name: "title", Type: schema.TypeString, Required: true, MinLen: 3, MaxLen: 200},
				linkField("link", true),
			}},
		},
		{
			Name: "websiteImportantInformationLink", Label: "Website important information link", Plural: "website important information links",
			Route: "website-important-information-links", Collection: "website_important_information_links",
			IDPrefix: "websiteImportantInformationLink", UniqueField: "title",
			Schema: schema.Schema{Fields: []schema.Field{
				{Name: "title", Type: schema.TypeString, Required: true, MinLen: 3, MaxLen: 200},
				linkField("link", true),
			}},
		},
		{
			Name: "websiteSocialMediaLink", Label: "Website social media link", Plural: "website social media links",
			Route: "website-social-media-links", Collection: "website_social_media_links",
			IDPrefix: "websiteSocialMediaLink", UniqueField: "title",
			Schema: schema.Schema{Fields: []schema.Field{
				{Name: "title", Type: schema.TypeString, Required: true, MinLen: 3, MaxLen: 200},
				linkField("link", true),
			}},
		},
	}
}

// ByRoute looks a definition up by its path segment.
func ByRoute(route string) (Definition, bool) {
	for _, def := range All() {
		if def.Route == route {
			return def, true
		}
	}
	return Definition{}, false
}
