package model

import (
	"encoding/json"
	"strings"

	"handscout/models"
)

// Marker, an denen der synthetische Generator die Domain eines Prompts erkennt.
const (
	HardwareMarker = "dexterous hand hardware"
	PaperMarker    = "research papers"
)

// Synthetic erzeugt deterministische Ersatzdaten anhand des Prompt-Inhalts.
type Synthetic struct {
	hardware string
	papers   string
}

// NewSynthetic serialisiert die festen Datensätze einmalig.
func NewSynthetic() *Synthetic {
	return &Synthetic{
		hardware: mustJSON(syntheticHardware()),
		papers:   mustJSON(syntheticPapers()),
	}
}

// Generate liefert ein JSON-Array passend zur erkannten Domain oder "[]".
func (s *Synthetic) Generate(prompt string) string {
	switch {
	case strings.Contains(prompt, HardwareMarker):
		return s.hardware
	case strings.Contains(prompt, PaperMarker):
		return s.papers
	default:
		return "[]"
	}
}

// mustJSON serialisiert Teil-Datensätze ohne die Felder, die erst die Pipeline setzt.
func mustJSON[T any](records []T) string {
	out := make([]map[string]json.RawMessage, 0, len(records))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			panic(err)
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			panic(err)
		}
		delete(fields, "id")
		delete(fields, "lastUpdated")
		out = append(out, fields)
	}
	data, err := json.Marshal(out)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func hand(name, manufacturer string, fingers, dofs, actuated int, abduction, flexion bool, price float64) models.Hardware {
	return models.Hardware{
		Name:         name,
		Manufacturer: models.Ptr(manufacturer),
		Fingers:      models.Ptr(fingers),
		DOFs:         models.Ptr(dofs),
		ActuatedDOFs: models.Ptr(actuated),
		Abduction:    models.Ptr(abduction),
		Flexion:      models.Ptr(flexion),
		Price:        models.Ptr(price),
	}
}

// syntheticHardware ist der Datensatz, den die Anwendung ohne Modellzugang anzeigt.
func syntheticHardware() []models.Hardware {
	return []models.Hardware{
		hand("Shadow Dexterous Hand", "Shadow Robot Company", 5, 24, 20, true, true, 150000),
		hand("Allegro Hand", "Wonik Robotics", 4, 16, 16, true, true, 35000),
		hand("Barrett Hand", "Barrett Technology", 3, 8, 4, true, true, 25000),
		hand("Schunk SVH 5-Finger Hand", "Schunk", 5, 9, 9, false, true, 45000),
		hand("DLR-HIT Hand II", "DLR/HIT", 5, 15, 15, true, true, 80000),
	}
}

func paper(title string, authors []string, abstract, category, published, url string) models.Paper {
	return models.Paper{
		Title:         title,
		Authors:       authors,
		Abstract:      models.Ptr(abstract),
		Category:      models.Ptr(category),
		PublishedDate: models.Ptr(published),
		URL:           models.Ptr(url),
	}
}

func syntheticPapers() []models.Paper {
	return []models.Paper{
		paper("Learning Dexterous Manipulation from Suboptimal Experts",
			[]string{"Jiang, Y.", "Li, K.", "Gupta, A."},
			"We present a method for learning dexterous manipulation skills from suboptimal human demonstrations using reinforcement learning.",
			models.CategoryReinforcementLearning, "2023-10-15", "https://arxiv.org/abs/2310.xxxxx"),
		paper("VLA-Hand: Vision-Language-Action Models for Dexterous Manipulation",
			[]string{"Chen, L.", "Wang, S.", "Zhang, M."},
			"This paper introduces a vision-language-action model specifically designed for dexterous hand manipulation tasks.",
			models.CategoryVLAs, "2024-03-20", "https://arxiv.org/abs/2403.xxxxx"),
		paper("Imitation Learning for Complex Dexterous Manipulation",
			[]string{"Rodriguez, A.", "Kim, J.", "Brown, T."},
			"We explore imitation learning techniques for teaching robots complex dexterous manipulation skills through expert demonstrations.",
			models.CategoryImitationLearning, "2023-12-08", "https://arxiv.org/abs/2312.xxxxx"),
		paper("Optimal Control Strategies for Multi-Fingered Robotic Hands",
			[]string{"Singh, R.", "Patel, N.", "Liu, X."},
			"This work presents novel control strategies for coordinated movement of multi-fingered robotic hands in manipulation tasks.",
			models.CategoryControl, "2024-01-25", "https://arxiv.org/abs/2401.xxxxx"),
		paper("Trajectory Optimization for Dexterous Grasping",
			[]string{"Thompson, M.", "Davis, K.", "Wilson, J."},
			"We propose optimization techniques for generating smooth and efficient trajectories for dexterous grasping operations.",
			models.CategoryOptimization, "2023-11-30", "https://arxiv.org/abs/2311.xxxxx"),
	}
}
