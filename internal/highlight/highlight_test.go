package highlight

import (
	"strings"
	"testing"
)

func TestMarkupChannelsAndKeyword(t *testing.T) {
	got := Markup("{m} = AVG({a},{b})")

	expected := `<span class="larex-brace">{</span><span class="larex-channel">m</span><span class="larex-brace">}</span>` +
		` = <span class="larex-fn">AVG</span>(` +
		`<span class="larex-brace">{</span><span class="larex-channel">a</span><span class="larex-brace">}</span>,` +
		`<span class="larex-brace">{</span><span class="larex-channel">b</span><span class="larex-brace">}</span>)`

	if got != expected {
		t.Errorf("unexpected markup\nexpected: %s\ngot:      %s", expected, got)
	}
}

func TestMarkupEscapesHTML(t *testing.T) {
	got := Markup("{<x>} = {a} < 1 & 2")

	if strings.Contains(got, "<x>") {
		t.Errorf("channel name was not escaped: %s", got)
	}
	if !strings.Contains(got, `<span class="larex-channel">&lt;x&gt;</span>`) {
		t.Errorf("expected escaped channel span, got %s", got)
	}
	if !strings.HasSuffix(got, " &lt; 1 &amp; 2") {
		t.Errorf("expected escaped tail, got %s", got)
	}
}

func TestMarkupOnlyHighlightsWholeKeywords(t *testing.T) {
	got := Markup("{o} = AVGX + sqrt(SUM({a}))")

	if strings.Contains(got, `<span class="larex-fn">AVG</span>X`) {
		t.Errorf("AVG inside a longer word must not be highlighted: %s", got)
	}
	if strings.Contains(got, `<span class="larex-fn">sqrt</span>`) {
		t.Errorf("scalar functions are not highlighted: %s", got)
	}
	if !strings.Contains(got, `<span class="larex-fn">SUM</span>`) {
		t.Errorf("expected SUM to be highlighted: %s", got)
	}
}

func TestMarkupUnbalancedBraces(t *testing.T) {
	tests := map[string]string{
		"{a":     "{a",
		"{a{b}":  `{a<span class="larex-brace">{</span><span class="larex-channel">b</span><span class="larex-brace">}</span>`,
		"a}":     "a}",
		"":       "",
		"{} = 1": `<span class="larex-brace">{</span><span class="larex-channel"></span><span class="larex-brace">}</span> = 1`,
	}

	for in, expected := range tests {
		if got := Markup(in); got != expected {
			t.Errorf("%q: expected %s, got %s", in, expected, got)
		}
	}
}
