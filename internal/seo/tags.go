package seo

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Tags is the crawler-visible metadata of a document.
type Tags struct {
	Title              string `json:"title" yaml:"title"`
	Description        string `json:"description" yaml:"description"`
	OGTitle            string `json:"og_title" yaml:"og_title"`
	OGDescription      string `json:"og_description" yaml:"og_description"`
	OGURL              string `json:"og_url" yaml:"og_url"`
	TwitterTitle       string `json:"twitter_title" yaml:"twitter_title"`
	TwitterDescription string `json:"twitter_description" yaml:"twitter_description"`
}

// ReadMeta parses doc and reports the tags a social preview would use.
func ReadMeta(doc string) (Tags, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return Tags{}, fmt.Errorf("parse document: %w", err)
	}

	attr := func(sel string) string {
		v, _ := d.Find(sel).First().Attr("content")
		return v
	}
	return Tags{
		Title:              d.Find("title").First().Text(),
		Description:        attr(`meta[name="description"]`),
		OGTitle:            attr(`meta[property="og:title"]`),
		OGDescription:      attr(`meta[property="og:description"]`),
		OGURL:              attr(`meta[property="og:url"]`),
		TwitterTitle:       attr(`meta[property="twitter:title"]`),
		TwitterDescription: attr(`meta[property="twitter:description"]`),
	}, nil
}
