// internal/extract/cards.go

package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	leadingNumberRe = regexp.MustCompile(`^(\d+)`)
	ageSuffixRe     = regexp.MustCompile(`(?i)\s*,?\s*age\s+\d+`)
	parenNumRe      = regexp.MustCompile(`\s*\(\d+\)`)
	trailingNumRe   = regexp.MustCompile(`\s*\d+\s*$`)
	akaLabelRe      = regexp.MustCompile(`(?i)\b(AKA|Also Known As):?\s*`)
	akaMarkerRe     = regexp.MustCompile(`(?i)\bAKA\b|\bAlso Known As\b`)
	relativesRe     = regexp.MustCompile(`(?i)\b(Relatives?|Related\s+to|Associated)\b`)
)

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bage[:\s]+(\d+)`),
	regexp.MustCompile(`\((\d+)\)`),
	regexp.MustCompile(`(?i)(\d+)\s*years?\s*old`),
}

// phoneTypeKeywords classify a phone link by its title or surrounding text.
var phoneTypeKeywords = []struct {
	label    string
	keywords []string
}{
	{"Wireless", []string{"wireless", "mobile", "cell"}},
	{"Landline", []string{"landline", "home"}},
	{"VoIP", []string{"voip", "internet"}},
}

const cardSelector = `div.card, div.card-block, div.shadow, div[class*="result"]`

// matchCard picks the result card whose address section mentions the
// target's leading street number. Falls back to the first card, and nil
// when the page has none.
func matchCard(doc *Document, targetAddress string) *goquery.Selection {
	cards := doc.Find(cardSelector)
	if cards.Length() == 0 {
		return nil
	}

	streetNumber := leadingNumberRe.FindString(strings.TrimSpace(targetAddress))
	if streetNumber == "" {
		return cards.First()
	}

	var matched *goquery.Selection
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		hit := false
		card.Find(`a[href*="address"], div.detail-box, p, span`).EachWithBreak(func(_ int, elem *goquery.Selection) bool {
			if strings.Contains(strings.ToLower(elem.Text()), streetNumber) {
				hit = true
				return false
			}
			return true
		})
		if hit {
			matched = card
			return false
		}
		return true
	})
	if matched != nil {
		return matched
	}
	return cards.First()
}

// extractResident reads person fields out of a single result card.
func extractResident(card *goquery.Selection, blacklist PhoneBlacklist) map[string]string {
	data := make(map[string]string)
	if card == nil {
		return data
	}

	if name := extractName(card); name != "" {
		data["full_name"] = name
	}
	if age := extractAge(card.Text()); age != "" {
		data["age"] = age
	}
	if aka := extractAKA(card, data["full_name"]); aka != "" {
		data["other_observed_names"] = aka
	}
	if rel := extractRelatives(card, data["full_name"]); rel != "" {
		data["relatives"] = rel
	}
	extractPhones(card, blacklist, data)
	return data
}

var nameSelectors = []string{"h2", "h3", "a[data-link-to-more]", ".h4", `[class*="name"]`, "strong"}

func extractName(card *goquery.Selection) string {
	for _, sel := range nameSelectors {
		text := strings.TrimSpace(card.Find(sel).First().Text())
		if text == "" {
			continue
		}
		text = ageSuffixRe.ReplaceAllString(text, "")
		text = parenNumRe.ReplaceAllString(text, "")
		text = trailingNumRe.ReplaceAllString(text, "")
		text = strings.TrimSpace(text)
		if len(text) > 2 {
			return text
		}
	}
	return ""
}

func extractAge(cardText string) string {
	for _, pattern := range agePatterns {
		m := pattern.FindStringSubmatch(cardText)
		if m == nil {
			continue
		}
		age, err := strconv.Atoi(m[1])
		if err == nil && age >= 18 && age <= 120 {
			return m[1]
		}
	}
	return ""
}

func extractAKA(card *goquery.Selection, fullName string) string {
	var aka string
	card.Find("div, p, span, li").EachWithBreak(func(_ int, elem *goquery.Selection) bool {
		text := elem.Text()
		if !akaMarkerRe.MatchString(text) {
			return true
		}
		cleaned := strings.TrimSpace(akaLabelRe.ReplaceAllString(text, ""))
		cleaned = strings.Join(strings.Fields(cleaned), " ")
		if cleaned != "" && cleaned != fullName {
			aka = cleaned
			return false
		}
		return true
	})
	return aka
}

func extractRelatives(card *goquery.Selection, fullName string) string {
	var result string
	card.Find("div, section, ul, p").EachWithBreak(func(_ int, container *goquery.Selection) bool {
		if !relativesRe.MatchString(container.Text()) {
			return true
		}
		var relatives []string
		container.Find("a, span, li").Each(func(_ int, elem *goquery.Selection) {
			text := strings.TrimSpace(elem.Text())
			if len(strings.Fields(text)) < 2 || text == fullName {
				return
			}
			if text[0] < 'A' || text[0] > 'Z' {
				return
			}
			if len(relatives) < 10 && !containsString(relatives, text) {
				relatives = append(relatives, text)
			}
		})
		if len(relatives) > 0 {
			result = strings.Join(relatives, ", ")
			return false
		}
		return true
	})
	return result
}

// extractPhones keeps the first two distinct numbers from tel: links,
// tagging the primary with a line type when one is evident. Link text that
// does not carry a valid number falls back to the href digits; links with
// neither are dropped.
func extractPhones(card *goquery.Selection, blacklist PhoneBlacklist, data map[string]string) {
	var phones []string
	var types []string

	card.Find(`a[href^="tel:"]`).Each(func(_ int, link *goquery.Selection) {
		normalized := FormatPhoneStrict(strings.TrimSpace(link.Text()))
		if normalized == "" {
			href := strings.TrimPrefix(link.AttrOr("href", ""), "tel:")
			normalized = FormatPhoneStrict(href)
		}
		if normalized == "" || containsString(phones, normalized) {
			return
		}
		if blacklist.Contains(normalized) {
			return
		}
		phones = append(phones, normalized)

		hints := strings.ToLower(link.AttrOr("title", "") + " " + link.Parent().Text())
		phoneType := ""
		for _, pt := range phoneTypeKeywords {
			for _, kw := range pt.keywords {
				if strings.Contains(hints, kw) {
					phoneType = pt.label
					break
				}
			}
			if phoneType != "" {
				break
			}
		}
		types = append(types, phoneType)
	})

	if len(phones) >= 1 {
		data["resident_phone_number"] = phones[0]
		if types[0] != "" {
			data["resident_phone_number_type"] = types[0]
		}
	}
	if len(phones) >= 2 {
		data["other_resident_phone_number"] = phones[1]
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
