package hashparams

import (
	"strconv"

	"github.com/matzehuels/folioview/pkg/errors"
	"github.com/matzehuels/folioview/pkg/settings"
)

// Parameter keys, before the instance suffix is appended.
const (
	KeyViewMode         = "v"
	KeyFullscreen       = "f"
	KeyZoomLevel        = "z"
	KeyPagesPerRow      = "n"
	KeyPageNumber       = "p"
	KeyPageFilename     = "i"
	KeyHorizontalOffset = "x"
	KeyVerticalOffset   = "y"
)

// Options are the per-instance codec settings.
type Options struct {
	// Suffix is appended to every key.
	Suffix string
	// EnableFilenameParam selects "i" (filename) over "p" (page number).
	EnableFilenameParam bool
}

func (o Options) key(k string) string { return k + o.Suffix }

// Context carries the document facts validation depends on.
type Context struct {
	PageCount    int
	MaxZoomLevel int

	// FilenameToIndex resolves "i" values. A nil func rejects every filename.
	FilenameToIndex func(name string) (int, bool)
	// IndexToFilename is used by Serialize when filename params are enabled.
	IndexToFilename func(index int) (string, bool)
}

// InvalidValue records a parameter that failed validation and was dropped.
type InvalidValue struct {
	Key   string
	Value string
	Err   *errors.Error
}

// Result is the outcome of Parse.
type Result struct {
	// Settings is the base settings with every valid parameter applied.
	Settings settings.Settings

	// PageSpecified is set when a valid "p" or "i" was present.
	PageSpecified bool
	// HasVerticalOffset and HasHorizontalOffset are set when "y" or "x"
	// parsed as integers, whether or not a page was given.
	HasVerticalOffset   bool
	HasHorizontalOffset bool

	// VerticalOffset is "y" as given. Settings.VerticalOffset holds it
	// clamped to zero; a scroll target uses this one so that a point above
	// the page top still lands where the link put it.
	VerticalOffset int

	// Invalid lists the dropped parameters in key order.
	Invalid []InvalidValue
}

// Parse applies the parameters found in fragment on top of base.
func Parse(fragment string, base settings.Settings, opts Options, ctx Context) Result {
	params := Split(fragment)
	res := Result{Settings: base}
	s := &res.Settings

	invalid := func(key, value, format string, args ...any) {
		res.Invalid = append(res.Invalid, InvalidValue{
			Key:   key,
			Value: value,
			Err:   errors.New(errors.ErrCodeInvalidHashValue, format, args...),
		})
	}

	if v, ok := params.Get(opts.key(KeyViewMode)); ok {
		switch v {
		case "g":
			s.ViewMode = settings.ModeGrid
		case "b":
			s.ViewMode = settings.ModeBook
		default:
			s.ViewMode = settings.ModeDocument
		}
	}

	if v, ok := params.Get(opts.key(KeyFullscreen)); ok {
		s.InFullscreen = v == "true"
	}

	if v, ok := params.Get(opts.key(KeyZoomLevel)); ok {
		if z, err := strconv.Atoi(v); err != nil || z < 0 || z > ctx.MaxZoomLevel {
			invalid(KeyZoomLevel, v, "zoom level %q not in [0, %d]", v, ctx.MaxZoomLevel)
		} else {
			s.ZoomLevel = z
		}
	}

	if v, ok := params.Get(opts.key(KeyPagesPerRow)); ok {
		if n, err := strconv.Atoi(v); err != nil || n < settings.MinPagesPerRow || n > settings.MaxPagesPerRow {
			invalid(KeyPagesPerRow, v, "pages per row %q not in [%d, %d]", v, settings.MinPagesPerRow, settings.MaxPagesPerRow)
		} else {
			s.PagesPerRow = n
		}
	}

	if opts.EnableFilenameParam {
		if v, ok := params.Get(opts.key(KeyPageFilename)); ok {
			idx, found := -1, false
			if ctx.FilenameToIndex != nil {
				idx, found = ctx.FilenameToIndex(v)
			}
			if !found || idx < 0 || idx >= ctx.PageCount {
				invalid(KeyPageFilename, v, "unknown page filename %q", v)
			} else {
				s.CurrentPageIndex = idx
				res.PageSpecified = true
			}
		}
	} else if v, ok := params.Get(opts.key(KeyPageNumber)); ok {
		if p, err := strconv.Atoi(v); err != nil || p-1 < 0 || p-1 >= ctx.PageCount {
			invalid(KeyPageNumber, v, "page number %q not in [1, %d]", v, ctx.PageCount)
		} else {
			s.CurrentPageIndex = p - 1
			res.PageSpecified = true
		}
	}

	if v, ok := params.Get(opts.key(KeyVerticalOffset)); ok {
		if y, err := strconv.Atoi(v); err != nil {
			invalid(KeyVerticalOffset, v, "vertical offset %q is not an integer", v)
		} else {
			s.VerticalOffset = max(y, 0)
			res.VerticalOffset = y
			res.HasVerticalOffset = true
		}
	}

	if v, ok := params.Get(opts.key(KeyHorizontalOffset)); ok {
		if x, err := strconv.Atoi(v); err != nil {
			invalid(KeyHorizontalOffset, v, "horizontal offset %q is not an integer", v)
		} else {
			s.HorizontalOffset = x
			res.HasHorizontalOffset = true
		}
	}

	return res
}

// Serialize encodes s as a fragment (without "#"). Every key is written.
// With filename parameters enabled the page is written as "i" when
// IndexToFilename knows the page, and omitted otherwise.
func Serialize(s settings.Settings, opts Options, ctx Context) string {
	return Encode(s, opts, ctx).Encode()
}

// Encode is Serialize without the final join.
func Encode(s settings.Settings, opts Options, ctx Context) Params {
	mode := "d"
	switch s.ViewMode {
	case settings.ModeGrid:
		mode = "g"
	case settings.ModeBook:
		mode = "b"
	}

	params := Params{
		{Key: opts.key(KeyViewMode), Value: mode},
		{Key: opts.key(KeyFullscreen), Value: strconv.FormatBool(s.InFullscreen)},
		{Key: opts.key(KeyZoomLevel), Value: strconv.Itoa(s.ZoomLevel)},
		{Key: opts.key(KeyPagesPerRow), Value: strconv.Itoa(s.PagesPerRow)},
	}

	if opts.EnableFilenameParam {
		if ctx.IndexToFilename != nil {
			if name, ok := ctx.IndexToFilename(s.CurrentPageIndex); ok {
				params = append(params, Param{Key: opts.key(KeyPageFilename), Value: name})
			}
		}
	} else {
		params = append(params, Param{Key: opts.key(KeyPageNumber), Value: strconv.Itoa(s.CurrentPageIndex + 1)})
	}

	return append(params,
		Param{Key: opts.key(KeyVerticalOffset), Value: strconv.Itoa(s.VerticalOffset)},
		Param{Key: opts.key(KeyHorizontalOffset), Value: strconv.Itoa(s.HorizontalOffset)},
	)
}
