// Package listing parses the directory's rendered candidate list. The DOM
// shape is a structural contract with the external site; when the site
// changes its markup, this package is the blast radius.
package listing

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/eventra/judge-scout/internal/scout"
)

// Selectors matching the directory's browse-page markup.
const (
	ContainerSelector = "ul.contacts-list"
	itemSelector      = "ul.contacts-list li.area-of-expertise"
	nameSelector      = ".profile-text strong"
	expertiseSelector = ".name"
	statusSelector    = ".status"
	priceSelector     = ".profile-detail.profile-stat.price strong"
	locationSelector  = ".profile-text span:last-child"
)

// Raw field defaults when a sub-element is missing from an item.
const (
	defaultName  = "Unknown"
	defaultPrice = "$0"
)

// HasContainer reports whether the document contains the candidate list.
func HasContainer(html []byte) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find(ContainerSelector).Length() > 0
}

// Parse extracts up to limit raw profiles from the rendered page, in DOM
// order. A limit of 0 or less means no truncation.
func Parse(html []byte, limit int) ([]scout.RawProfile, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	var profiles []scout.RawProfile
	doc.Find(itemSelector).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if limit > 0 && len(profiles) >= limit {
			return false
		}
		profiles = append(profiles, parseItem(item))
		return true
	})
	return profiles, nil
}

func parseItem(item *goquery.Selection) scout.RawProfile {
	name := text(item, nameSelector)
	if name == "" {
		name = defaultName
	}
	price := text(item, priceSelector)
	if price == "" {
		price = defaultPrice
	}
	return scout.RawProfile{
		Name:      name,
		Expertise: text(item, expertiseSelector),
		Status:    text(item, statusSelector),
		Price:     price,
		Location:  text(item, locationSelector),
	}
}

func text(item *goquery.Selection, selector string) string {
	return strings.TrimSpace(item.Find(selector).First().Text())
}
