package nlp

import "testing"

func TestFindTags(t *testing.T) {
	pipe := New("test_tags")
	if err := pipe.AddTagPattern("version", Seq(
		TokenOf(Numeric(true)),
		Term("."),
		TokenOf(Numeric(true)),
	).NoGap(), 1.0); err != nil {
		t.Fatal(err)
	}

	doc := pipe.Document("release 1.2 then 3.4")
	var got []string
	for s := range doc.FindTags([]string{"version"}, 0) {
		tag, _ := s.Attr(AttrTag)
		if tag != "version" {
			t.Errorf("tag attribute = %v", tag)
		}
		got = append(got, s.Text())
	}
	if want := []string{"1.2", "3.4"}; !equalStrings(got, want) {
		t.Errorf("tagged spans = %q, want %q", got, want)
	}
	if n := len(doc.Tags()["version"]); n != 2 {
		t.Errorf("recorded %d spans, want 2", n)
	}
}

func TestFindTagsConfidenceThreshold(t *testing.T) {
	pipe := New("test_tags")
	if err := pipe.AddTagPattern("weak", Term("a"), 0.3); err != nil {
		t.Fatal(err)
	}
	if err := pipe.AddTagPattern("strong", Term("a"), 0.8); err != nil {
		t.Fatal(err)
	}

	doc := pipe.Document("a")
	var got []string
	for s := range doc.FindTags([]string{"weak", "strong"}, 0.5) {
		tag, _ := s.Attr(AttrTag)
		got = append(got, tag.(string))
	}
	if want := []string{"strong"}; !equalStrings(got, want) {
		t.Errorf("tags above threshold = %q, want %q", got, want)
	}
}

func TestRecordTagKeepsMaxConfidence(t *testing.T) {
	pipe := New("test_tags")
	if err := pipe.AddTagPattern("x", Term("a"), 0.5); err != nil {
		t.Fatal(err)
	}
	if err := pipe.AddTagPattern("x", Term("a"), 0.9); err != nil {
		t.Fatal(err)
	}

	doc := pipe.Document("a")
	count := 0
	for range doc.FindTags([]string{"x"}, 0) {
		count++
	}
	// The second binding's span upgrades the recorded one in place and
	// becomes an exact duplicate, so it is not yielded again.
	if count != 1 {
		t.Errorf("yielded %d spans, want 1", count)
	}
	recorded := doc.Tags()["x"]
	if len(recorded) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(recorded))
	}
	if conf, _ := recorded[0].Attr(AttrConfidence); conf != 0.9 {
		t.Errorf("recorded confidence = %v, want 0.9", conf)
	}
}

func TestAddTagPatternRejectsMalformed(t *testing.T) {
	pipe := New("test_tags")
	if err := pipe.AddTagPattern("bad", Seq(), 1.0); err == nil {
		t.Error("expected compile error")
	}
}

func TestFindTagsUnknownTag(t *testing.T) {
	pipe := New("test_tags")
	doc := pipe.Document("anything")
	for range doc.FindTags([]string{"missing"}, 0) {
		t.Error("unexpected span for unregistered tag")
	}
}
