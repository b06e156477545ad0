package docs

import (
	"strings"
	"testing"
)

func TestTopicsListsEmbeddedContent(t *testing.T) {
	topics := Topics()
	if len(topics) == 0 {
		t.Fatalf("no embedded topics")
	}
	want := map[string]bool{"hierarchy": false, "filters": false, "profiles": false}
	for _, topic := range topics {
		if _, ok := want[topic]; ok {
			want[topic] = true
		}
	}
	for topic, found := range want {
		if !found {
			t.Errorf("topic %q missing from %v", topic, topics)
		}
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	body, ok := Get("  Hierarchy ")
	if !ok {
		t.Fatalf("hierarchy topic not found")
	}
	if !strings.Contains(body, "client") {
		t.Fatalf("hierarchy topic missing expected content")
	}
}

func TestGetUnknownTopic(t *testing.T) {
	if _, ok := Get("nope"); ok {
		t.Fatalf("unknown topic reported as found")
	}
}
