package resources

import (
	"context"
	"strconv"
	"time"

	"github.com/goliatone/go-cms-admin/internal/datagrid"
)

// File is a downloadable document.
type File struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OriginalURL string    `json:"originalUrl"`
	MimeType    string    `json:"mimeType,omitempty"`
	Size        int64     `json:"size,omitempty"`
	Tags        []string  `json:"tags"`
	Lang        string    `json:"lang"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Image is a picture with alternative text.
type Image struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Alt         string    `json:"alt"`
	OriginalURL string    `json:"originalUrl"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	Tags        []string  `json:"tags"`
	Lang        string    `json:"lang"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Video is a hosted or uploaded clip.
type Video struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Duration    int       `json:"duration,omitempty"`
	Tags        []string  `json:"tags"`
	Lang        string    `json:"lang"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewFileEngine builds the engine behind the Files screen.
func NewFileEngine(ctx context.Context, deps Deps, opts ...datagrid.Option) (*datagrid.Engine[File], error) {
	choices := deps.choices(ctx)
	return build(deps, definition[File]{
		resource: ResourceFiles,
		id:       func(f File) string { return f.ID },
		project: func(f File) datagrid.Form {
			return datagrid.Form{
				datagrid.MethodField: datagrid.UploadMethodURL,
				"name":               f.Name,
				"originalUrl":        f.OriginalURL,
				"tags":               JoinTags(f.Tags),
				"lang":               f.Lang,
				"isActive":           f.IsActive,
			}
		},
		defaults: func() datagrid.Form {
			return datagrid.Form{
				datagrid.MethodField: datagrid.UploadMethodURL,
				"name":               "",
				"originalUrl":        "",
				"tags":               "",
				"lang":               choices.defaultLanguage(),
				"isActive":           true,
			}
		},
		fields: []datagrid.FilterField[File]{
			textField("name", func(f File) string { return f.Name }),
			langField(func(f File) string { return f.Lang }),
			activeField(func(f File) bool { return f.IsActive }),
		},
		predicates: []datagrid.Predicate[File]{tagsPredicate(func(f File) []string { return f.Tags })},
		rules:      assetRules(choices, "originalUrl"),
	}, opts...)
}

// FileColumns renders a file listing.
func FileColumns() []Column[File] {
	return []Column[File]{
		{Title: "ID", Width: 10, Value: func(f File) string { return f.ID }},
		{Title: "Name", Width: 28, Value: func(f File) string { return f.Name }},
		{Title: "Lang", Width: 4, Value: func(f File) string { return f.Lang }},
		{Title: "Tags", Width: 20, Value: func(f File) string { return JoinTags(f.Tags) }},
		{Title: "Active", Width: 6, Value: func(f File) string { return activeLabel(f.IsActive) }},
		{Title: "URL", Width: 40, Value: func(f File) string { return f.OriginalURL }},
	}
}

// NewImageEngine builds the engine behind the Images screen.
func NewImageEngine(ctx context.Context, deps Deps, opts ...datagrid.Option) (*datagrid.Engine[Image], error) {
	choices := deps.choices(ctx)
	return build(deps, definition[Image]{
		resource: ResourceImages,
		id:       func(i Image) string { return i.ID },
		project: func(i Image) datagrid.Form {
			return datagrid.Form{
				datagrid.MethodField: datagrid.UploadMethodURL,
				"name":               i.Name,
				"alt":                i.Alt,
				"originalUrl":        i.OriginalURL,
				"tags":               JoinTags(i.Tags),
				"lang":               i.Lang,
				"isActive":           i.IsActive,
			}
		},
		defaults: func() datagrid.Form {
			return datagrid.Form{
				datagrid.MethodField: datagrid.UploadMethodURL,
				"name":               "",
				"alt":                "",
				"originalUrl":        "",
				"tags":               "",
				"lang":               choices.defaultLanguage(),
				"isActive":           true,
			}
		},
		fields: []datagrid.FilterField[Image]{
			textField("name", func(i Image) string { return i.Name }),
			textField("alt", func(i Image) string { return i.Alt }),
			langField(func(i Image) string { return i.Lang }),
			activeField(func(i Image) bool { return i.IsActive }),
		},
		predicates: []datagrid.Predicate[Image]{tagsPredicate(func(i Image) []string { return i.Tags })},
		rules:      assetRules(choices, "originalUrl"),
	}, opts...)
}

// ImageColumns renders an image listing.
func ImageColumns() []Column[Image] {
	return []Column[Image]{
		{Title: "ID", Width: 10, Value: func(i Image) string { return i.ID }},
		{Title: "Name", Width: 24, Value: func(i Image) string { return i.Name }},
		{Title: "Alt", Width: 24, Value: func(i Image) string { return i.Alt }},
		{Title: "Lang", Width: 4, Value: func(i Image) string { return i.Lang }},
		{Title: "Size", Width: 9, Value: func(i Image) string {
			if i.Width == 0 || i.Height == 0 {
				return ""
			}
			return strconv.Itoa(i.Width) + "x" + strconv.Itoa(i.Height)
		}},
		{Title: "Active", Width: 6, Value: func(i Image) string { return activeLabel(i.IsActive) }},
	}
}

// NewVideoEngine builds the engine behind the Videos screen.
func NewVideoEngine(ctx context.Context, deps Deps, opts ...datagrid.Option) (*datagrid.Engine[Video], error) {
	choices := deps.choices(ctx)
	return build(deps, definition[Video]{
		resource: ResourceVideos,
		id:       func(v Video) string { return v.ID },
		project: func(v Video) datagrid.Form {
			return datagrid.Form{
				datagrid.MethodField: datagrid.UploadMethodURL,
				"name":               v.Name,
				"description":        v.Description,
				"url":                v.URL,
				"tags":               JoinTags(v.Tags),
				"lang":               v.Lang,
				"isActive":           v.IsActive,
			}
		},
		defaults: func() datagrid.Form {
			return datagrid.Form{
				datagrid.MethodField: datagrid.UploadMethodURL,
				"name":               "",
				"description":        "",
				"url":                "",
				"tags":               "",
				"lang":               choices.defaultLanguage(),
				"isActive":           true,
			}
		},
		fields: []datagrid.FilterField[Video]{
			textField("name", func(v Video) string { return v.Name }),
			textField("description", func(v Video) string { return v.Description }),
			langField(func(v Video) string { return v.Lang }),
			activeField(func(v Video) bool { return v.IsActive }),
		},
		predicates: []datagrid.Predicate[Video]{tagsPredicate(func(v Video) []string { return v.Tags })},
		rules:      assetRules(choices, "url"),
	}, opts...)
}

// VideoColumns renders a video listing.
func VideoColumns() []Column[Video] {
	return []Column[Video]{
		{Title: "ID", Width: 10, Value: func(v Video) string { return v.ID }},
		{Title: "Name", Width: 28, Value: func(v Video) string { return v.Name }},
		{Title: "Lang", Width: 4, Value: func(v Video) string { return v.Lang }},
		{Title: "Duration", Width: 8, Value: func(v Video) string {
			if v.Duration <= 0 {
				return ""
			}
			return (time.Duration(v.Duration) * time.Second).String()
		}},
		{Title: "Active", Width: 6, Value: func(v Video) string { return activeLabel(v.IsActive) }},
		{Title: "URL", Width: 40, Value: func(v Video) string { return v.URL }},
	}
}
