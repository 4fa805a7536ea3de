package diff

import (
	"strings"
	"testing"

	"github.com/nao1215/sitediff/internal/model"
)

// TestRenderArtifact tests the standalone HTML diff page.
func TestRenderArtifact(t *testing.T) {
	t.Parallel()

	t.Run("different path renders styled lines", func(t *testing.T) {
		t.Parallel()

		result := model.DiffResult{
			Path:   "/about",
			Status: model.StatusDifferent,
			Detail: " context\n-old line\n+new line\n",
		}

		out, err := RenderArtifact(result, "https://old.example.com", "https://new.example.com/")
		if err != nil {
			t.Fatalf("RenderArtifact failed: %v", err)
		}
		page := string(out)

		if !strings.Contains(page, `<span class="del">-old line</span>`) {
			t.Errorf("missing deletion span:\n%s", page)
		}
		if !strings.Contains(page, `<span class="ins">+new line</span>`) {
			t.Errorf("missing insertion span:\n%s", page)
		}
		if !strings.Contains(page, `<span class="ctx"> context</span>`) {
			t.Errorf("missing context span:\n%s", page)
		}
		if !strings.Contains(page, `href="https://old.example.com/about"`) {
			t.Errorf("missing before link:\n%s", page)
		}
		if !strings.Contains(page, `href="https://new.example.com/about"`) {
			t.Errorf("missing after link:\n%s", page)
		}
	})

	t.Run("errored path renders the message", func(t *testing.T) {
		t.Parallel()

		result := Errored("/broken", "after fetch failed: http status 500")

		out, err := RenderArtifact(result, "https://old.example.com", "https://new.example.com")
		if err != nil {
			t.Fatalf("RenderArtifact failed: %v", err)
		}
		page := string(out)

		if !strings.Contains(page, "after fetch failed: http status 500") {
			t.Errorf("missing error message:\n%s", page)
		}
		if strings.Contains(page, "<pre>") {
			t.Errorf("expected no diff block for errored path:\n%s", page)
		}
	})

	t.Run("markup in diff lines is escaped", func(t *testing.T) {
		t.Parallel()

		result := model.DiffResult{
			Path:   "/",
			Status: model.StatusDifferent,
			Detail: "-<script>alert(1)</script>\n",
		}

		out, err := RenderArtifact(result, "https://a.example.com", "https://b.example.com")
		if err != nil {
			t.Fatalf("RenderArtifact failed: %v", err)
		}
		if strings.Contains(string(out), "<script>alert(1)</script>") {
			t.Error("diff content was not escaped")
		}
	})
}
