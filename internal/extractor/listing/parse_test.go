package listing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eventra/judge-scout/internal/scout"
)

func profileItem(name, expertise, status, price, location string) string {
	var b strings.Builder
	b.WriteString(`<li class="area-of-expertise">`)
	if expertise != "" {
		fmt.Fprintf(&b, `<span class="name">%s</span>`, expertise)
	}
	if status != "" {
		fmt.Fprintf(&b, `<span class="status">%s</span>`, status)
	}
	if price != "" {
		fmt.Fprintf(&b, `<div class="profile-detail profile-stat price"><strong>%s</strong></div>`, price)
	}
	b.WriteString(`<div class="profile-text">`)
	if name != "" {
		fmt.Fprintf(&b, `<strong>%s</strong>`, name)
	}
	fmt.Fprintf(&b, `<span>%s</span>`, location)
	b.WriteString(`</div></li>`)
	return b.String()
}

func page(items ...string) []byte {
	return []byte(`<html><body><ul class="contacts-list">` + strings.Join(items, "") + `</ul></body></html>`)
}

func TestParse_ExtractsRawFields(t *testing.T) {
	t.Parallel()

	html := page(
		profileItem("Jane Doe", "", "online", "$4.00", "Austin, TX"),
		profileItem("John Roe", "Growth Marketing", "offline", "$2.50", "Denver, CO"),
	)

	profiles, err := Parse(html, 5)
	require.NoError(t, err)
	require.Equal(t, []scout.RawProfile{
		{Name: "Jane Doe", Expertise: "", Status: "online", Price: "$4.00", Location: "Austin, TX"},
		{Name: "John Roe", Expertise: "Growth Marketing", Status: "offline", Price: "$2.50", Location: "Denver, CO"},
	}, profiles)
}

func TestParse_DefaultsForMissingFields(t *testing.T) {
	t.Parallel()

	html := page(profileItem("", "", "", "", ""))

	profiles, err := Parse(html, 5)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.Equal(t, "Unknown", profiles[0].Name)
	require.Equal(t, "$0", profiles[0].Price)
	require.Empty(t, profiles[0].Status)
	require.Empty(t, profiles[0].Expertise)
}

func TestParse_TruncatesInDOMOrder(t *testing.T) {
	t.Parallel()

	items := make([]string, 0, 8)
	for i := 1; i <= 8; i++ {
		items = append(items, profileItem(fmt.Sprintf("Expert %d", i), "", "online", "$1.00", ""))
	}

	profiles, err := Parse(page(items...), 5)
	require.NoError(t, err)
	require.Len(t, profiles, 5)
	for i, p := range profiles {
		require.Equal(t, fmt.Sprintf("Expert %d", i+1), p.Name)
	}
}

func TestParse_NoLimit(t *testing.T) {
	t.Parallel()

	html := page(
		profileItem("A", "", "", "$1", ""),
		profileItem("B", "", "", "$2", ""),
	)

	profiles, err := Parse(html, 0)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
}

func TestParse_IgnoresItemsOutsideContainer(t *testing.T) {
	t.Parallel()

	html := []byte(`<html><body>
<ul class="other-list"><li class="area-of-expertise"><div class="profile-text"><strong>Stray</strong><span></span></div></li></ul>
<ul class="contacts-list">` + profileItem("Listed", "", "online", "$1.00", "") + `</ul>
</body></html>`)

	profiles, err := Parse(html, 5)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.Equal(t, "Listed", profiles[0].Name)
}

func TestHasContainer(t *testing.T) {
	t.Parallel()

	require.True(t, HasContainer(page()))
	require.False(t, HasContainer([]byte(`<html><body><p>maintenance</p></body></html>`)))
}
