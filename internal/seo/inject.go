// Package seo rewrites the SPA shell's meta tags so crawlers see per-post
// social previews.
package seo

import (
	"html"
	"net/url"
	"regexp"

	"github.com/ezzio11/portfolio/internal/posts"
)

// DefaultTagline is the fallback text the shell carries in its content attributes.
const DefaultTagline = "Ezz Eldin Ahmed | Full-Stack Systems Developer"

// PostMetadata is the final computed metadata for one injection.
type PostMetadata struct {
	Title       string
	Description string
	URL         string
	Slug        string
}

// Site identifies the portfolio the posts belong to.
type Site struct {
	Name   string
	Origin string
}

// BuildMeta computes the title, description and canonical URL for a post.
func BuildMeta(p posts.Post, site Site) PostMetadata {
	title := p.Title + " | " + site.Name
	desc := p.Description
	if desc == "" {
		desc = `Read "` + p.Title + `" on ` + site.Name + `'s Portfolio.`
	}
	return PostMetadata{
		Title:       title,
		Description: desc,
		URL:         site.Origin + "/?post=" + url.QueryEscape(p.Slug),
		Slug:        p.Slug,
	}
}

var (
	titleTag       = regexp.MustCompile(`<title>.*?</title>`)
	ogTitle        = regexp.MustCompile(`property="og:title" content="[^"]*"`)
	twitterTitle   = regexp.MustCompile(`property="twitter:title" content="[^"]*"`)
	descriptionTag = regexp.MustCompile(`name="description" content="[^"]*"`)
	ogDescription  = regexp.MustCompile(`property="og:description" content="[^"]*"`)
	twitterDesc    = regexp.MustCompile(`property="twitter:description" content="[^"]*"`)
	ogURL          = regexp.MustCompile(`property="og:url" content="[^"]*"`)
)

// Injector rewrites meta tags in an HTML shell. The zero value is not
// usable; create one with NewInjector.
type Injector struct {
	tagline *regexp.Regexp
}

// NewInjector returns an Injector that also rewrites every content
// attribute carrying tagline.
func NewInjector(tagline string) *Injector {
	return &Injector{
		tagline: regexp.MustCompile(`content="[^"]*` + regexp.QuoteMeta(tagline) + `[^"]*"`),
	}
}

var defaultInjector = NewInjector(DefaultTagline)

// Inject rewrites doc with the default tagline.
func Inject(doc string, meta PostMetadata) string {
	return defaultInjector.Inject(doc, meta)
}

// Inject returns doc with its title, description and og/twitter tags
// replaced by meta. Each tag is replaced at its first occurrence except
// the tagline, which is replaced everywhere. Missing tags are left alone.
// og:url is only touched when meta.URL is set.
func (in *Injector) Inject(doc string, meta PostMetadata) string {
	title := html.EscapeString(meta.Title)
	desc := html.EscapeString(meta.Description)

	doc = replaceFirst(titleTag, doc, `<title>`+title+`</title>`)
	doc = in.tagline.ReplaceAllLiteralString(doc, `content="`+title+`"`)
	doc = replaceFirst(ogTitle, doc, `property="og:title" content="`+title+`"`)
	doc = replaceFirst(twitterTitle, doc, `property="twitter:title" content="`+title+`"`)
	doc = replaceFirst(descriptionTag, doc, `name="description" content="`+desc+`"`)
	doc = replaceFirst(ogDescription, doc, `property="og:description" content="`+desc+`"`)
	doc = replaceFirst(twitterDesc, doc, `property="twitter:description" content="`+desc+`"`)
	if meta.URL != "" {
		doc = replaceFirst(ogURL, doc, `property="og:url" content="`+html.EscapeString(meta.URL)+`"`)
	}
	return doc
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
