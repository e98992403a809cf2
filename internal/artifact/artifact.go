// SPDX-License-Identifier: Apache-2.0

// Package artifact renders the project reports (decision log, config
// workbook, test view and migration view) and the structured export.
//
// Every report is a pure function of a Snapshot. Rendering never changes the
// backlog, the answers or the decisions it reads.
package artifact

import (
	"fmt"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/kusari-oss/imgquest/internal/core/models"
)

// TBDMarker is the placeholder emitted for undecided items.
const TBDMarker = "TBD"

// Snapshot is the state a set of reports is rendered from.
type Snapshot struct {
	Project     models.Project
	Decisions   []models.Decision
	Backlog     []models.BacklogEntry
	Answers     []models.Answer
	Catalog     models.Catalog
	GeneratedAt time.Time
}

// Renderer produces the text of one report type.
type Renderer interface {
	Type() models.ArtifactType
	Render(s Snapshot) (string, error)
}

// CountTBD returns the number of TBD markers in content.
func CountTBD(content string) int {
	return strings.Count(content, TBDMarker)
}

// Digest returns the hex blake3 hash of content.
func Digest(content string) (string, error) {
	hasher := blake3.New()
	if _, err := hasher.Write([]byte(content)); err != nil {
		return "", fmt.Errorf("hash artifact: %w", err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// Build renders s with r and wraps the result as a stored artifact.
func Build(r Renderer, s Snapshot) (models.Artifact, error) {
	content, err := r.Render(s)
	if err != nil {
		return models.Artifact{}, err
	}
	digest, err := Digest(content)
	if err != nil {
		return models.Artifact{}, err
	}
	return models.Artifact{
		ProjectID: s.Project.ID,
		Type:      r.Type(),
		Content:   content,
		TBDCount:  CountTBD(content),
		Digest:    digest,
		CreatedAt: s.GeneratedAt,
	}, nil
}
