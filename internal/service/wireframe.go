package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"

	"github.com/Janakrish1/Plan2Ship/config"
	"github.com/Janakrish1/Plan2Ship/internal/model"
	"github.com/Janakrish1/Plan2Ship/internal/pkg/imagegen"
	"github.com/Janakrish1/Plan2Ship/internal/storage"
)

// variationStyles cycle through on regeneration so repeated requests for the
// same screen produce visibly different mockups.
var variationStyles = []string{
	"minimal clean layout",
	"bold modern layout",
	"different color scheme and spacing",
	"alternative arrangement of sections",
	"fresh take with new visual hierarchy",
	"another variation with different styling",
}

// WireframeService renders Stage 4 text wireframes into PNG mockups via the
// image generation endpoint.
type WireframeService struct {
	cfg   *config.Config
	store *storage.Store
	gen   imagegen.Generator
}

func NewWireframeService(cfg *config.Config, store *storage.Store, gen imagegen.Generator) *WireframeService {
	return &WireframeService{cfg: cfg, store: store, gen: gen}
}

// GenerateImage produces a mockup for one wireframe entry and records the
// image path on the project. Returns the updated project and the new path.
func (s *WireframeService) GenerateImage(ctx context.Context, projectID string, wireframeIndex int) (*model.Project, string, error) {
	project, err := s.store.Get(projectID)
	if err != nil {
		return nil, "", err
	}
	if project.Stage4Analysis == nil || len(project.Stage4Analysis.Wireframes) == 0 {
		return nil, "", ErrNoStage4
	}
	if wireframeIndex < 0 || wireframeIndex >= len(project.Stage4Analysis.Wireframes) {
		return nil, "", ErrInvalidWireframeIndex
	}

	wireframe := &project.Stage4Analysis.Wireframes[wireframeIndex]

	var hint string
	variation := len(wireframe.ImagePaths)
	if variation > 0 {
		hint = variationStyles[(variation-1)%len(variationStyles)]
	}

	prompt := BuildWireframePrompt(wireframe, hint)
	klog.V(6).Infof("generating wireframe image: project=%s, index=%d, variation=%d", projectID, wireframeIndex, variation)

	png, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("screen-%d.png", wireframeIndex)
	if variation > 0 {
		filename = fmt.Sprintf("screen-%d-%d.png", wireframeIndex, variation)
	}

	dir := s.store.UploadPath(projectID, "wireframes")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", err
	}
	if err := os.WriteFile(filepath.Join(dir, filename), png, 0644); err != nil {
		return nil, "", err
	}

	imagePath := filepath.ToSlash(filepath.Join("wireframes", filename))
	wireframe.ImagePaths = append(wireframe.ImagePaths, imagePath)

	if err := s.store.Save(project); err != nil {
		return nil, "", err
	}
	return project, imagePath, nil
}

// BuildWireframePrompt composes the flat-webpage image prompt for one text
// wireframe. The constraints about flatness and background matter: without
// them the image endpoint drifts into isometric artboards.
func BuildWireframePrompt(w *model.Wireframe, variationHint string) string {
	parts := []string{
		"A single webpage design. One full web page only, a real website as seen in a browser. Flat, straight-on view only: no tilt, no angle, no isometric perspective, no 3D. The page must be perfectly flat and front-facing like a screenshot.",
		fmt.Sprintf("Screen: %q. %s.", w.ScreenName, w.Purpose),
	}
	if variationHint != "" {
		parts = append(parts, fmt.Sprintf("Create a distinct variation: %s.", variationHint))
	}
	if len(w.Components) > 0 {
		parts = append(parts, fmt.Sprintf("Include: %s. Clear layout and sections like a real live website.", strings.Join(w.Components, ", ")))
	}
	if len(w.Microcopy) > 0 {
		copyLines := w.Microcopy
		if len(copyLines) > 6 {
			copyLines = copyLines[:6]
		}
		parts = append(parts, fmt.Sprintf("Use this text where relevant: %s.", strings.Join(copyLines, " | ")))
	}
	parts = append(parts, "CRITICAL: (1) No tilt, no perspective, no isometric: completely flat, straight-on webpage like a browser screenshot. (2) No background: no green, no teal, no colored area outside the page. The webpage itself must fill the entire image edge to edge with no border, no margin, no empty space, no visible background around it. (3) Do NOT show Figma, design software, artboards, or wireframe grid. Pure webpage only. Modern, clean, professional.")
	return strings.Join(parts, " ")
}
