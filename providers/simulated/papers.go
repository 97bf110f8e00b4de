package simulated

import (
	"context"
	"fmt"

	"handscout/models"
	"handscout/providers"

	"go.uber.org/zap"
)

var (
	_ providers.Provider[models.Paper] = (*ArxivScanner)(nil)
	_ providers.Provider[models.Paper] = (*IEEEScanner)(nil)
)

var titlesByCategory = map[string][]string{
	models.CategoryReinforcementLearning: {
		"Deep Reinforcement Learning for Dexterous Hand Manipulation",
		"Policy Gradient Methods for Robotic Hand Control",
		"Multi-Agent RL for Coordinated Finger Movement",
		"Sample-Efficient Learning for Dexterous Grasping",
	},
	models.CategoryImitationLearning: {
		"Learning from Demonstration for Dexterous Manipulation",
		"Behavioral Cloning for Multi-Finger Robot Hands",
		"Expert Demonstration Analysis in Hand Manipulation",
		"One-Shot Imitation for Dexterous Tasks",
	},
	models.CategoryVLAs: {
		"Vision-Language-Action Models for Hand Manipulation",
		"Multimodal Learning for Dexterous Robot Control",
		"Language-Guided Manipulation with Robotic Hands",
		"VLA-Based Dexterous Manipulation Planning",
	},
	models.CategoryControl: {
		"Optimal Control for Multi-Fingered Robotic Hands",
		"Adaptive Control Strategies for Dexterous Manipulation",
		"Force Control in Dexterous Grasping Systems",
		"Real-Time Control of Anthropomorphic Hands",
	},
	models.CategoryOptimization: {
		"Trajectory Optimization for Dexterous Grasping",
		"Motion Planning for Multi-Finger Manipulation",
		"Optimization-Based Grasp Synthesis",
		"Energy-Efficient Control of Robotic Hands",
	},
}

var abstractByCategory = map[string]string{
	models.CategoryReinforcementLearning: "We present a novel reinforcement learning approach for dexterous hand manipulation tasks. Our method demonstrates significant improvements in sample efficiency and task success rates compared to existing approaches.",
	models.CategoryImitationLearning:     "This work explores imitation learning techniques for teaching robots complex dexterous manipulation skills through expert demonstrations. We show that our approach can learn intricate manipulation behaviors from limited demonstration data.",
	models.CategoryVLAs:                  "We introduce a vision-language-action model specifically designed for dexterous hand manipulation tasks. The model integrates visual perception, natural language understanding, and motor control for improved manipulation capabilities.",
	models.CategoryControl:               "This paper presents novel control strategies for coordinated movement of multi-fingered robotic hands in manipulation tasks. Our approach addresses the challenges of high-dimensional control and contact dynamics.",
	models.CategoryOptimization:          "We propose optimization techniques for generating smooth and efficient trajectories for dexterous grasping operations. The method considers both kinematic constraints and dynamic stability requirements.",
}

var (
	firstNames = []string{"Alex", "Jordan", "Sam", "Riley", "Casey", "Taylor", "Morgan", "Jamie"}
	lastNames  = []string{"Chen", "Smith", "Johnson", "Williams", "Brown", "Davis", "Miller", "Wilson"}
)

// ArxivScanner simuliert die arXiv-Suche über eine feste Liste von Suchbegriffen.
type ArxivScanner struct{ scanner }

// NewArxivScanner erstellt den arXiv-Scanner.
func NewArxivScanner(dice *Dice, catalog Catalog, logger *zap.Logger) *ArxivScanner {
	return &ArxivScanner{newScanner(dice, catalog, logger)}
}

// Name gibt den Namen des Providers zurück.
func (s *ArxivScanner) Name() string { return "arxiv" }

// Discover erzeugt pro Suchbegriff ein bis drei Paper und entfernt Titel-Duplikate.
func (s *ArxivScanner) Discover(ctx context.Context, query string) ([]models.Paper, error) {
	log := s.logger.With(zap.String("provider", s.Name()), zap.String("query", query))
	all, err := scanEach(ctx, log, s.catalog.SearchTerms, func(term Source) ([]models.Paper, error) {
		if err := visit(term); err != nil {
			return nil, err
		}
		n := s.dice.Between(1, 3)
		papers := make([]models.Paper, 0, n)
		for i := 0; i < n; i++ {
			papers = append(papers, s.paper(term.Name))
		}
		return papers, nil
	})
	if err != nil {
		return nil, err
	}

	unique := uniqueTitles(all)
	log.Info("arXiv-Suche abgeschlossen", zap.Int("found", len(all)), zap.Int("unique", len(unique)))
	return unique, nil
}

func (s *ArxivScanner) paper(term string) models.Paper {
	category := Pick(s.dice, models.PaperCategories)
	year := s.dice.Between(2023, 2024)
	month := s.dice.Between(1, 12)
	day := s.dice.Between(1, 28)
	found := s.now()

	return models.Paper{
		Title:         Pick(s.dice, titlesByCategory[category]),
		Authors:       s.authors(),
		Abstract:      models.Ptr(abstractByCategory[category]),
		Category:      models.Ptr(category),
		PublishedDate: models.Ptr(fmt.Sprintf("%d-%02d-%02d", year, month, day)),
		URL:           models.Ptr(fmt.Sprintf("https://arxiv.org/abs/%02d%02d.%05d", year%100, month, s.dice.IntN(99999))),
		Source:        models.Ptr("ArXiv"),
		SearchTerm:    models.Ptr(term),
		FoundAt:       &found,
	}
}

func (s *ArxivScanner) authors() []string {
	n := s.dice.Between(1, 4)
	authors := make([]string, 0, n)
	for i := 0; i < n; i++ {
		authors = append(authors, Pick(s.dice, firstNames)+" "+Pick(s.dice, lastNames))
	}
	return authors
}

// uniqueTitles behält das erste Paper je Titel.
func uniqueTitles(papers []models.Paper) []models.Paper {
	seen := make(map[string]struct{}, len(papers))
	out := make([]models.Paper, 0, len(papers))
	for _, p := range papers {
		key := models.IdentityKey(p.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// IEEEScanner simuliert die IEEE-Xplore-Suche nach Konferenzbeiträgen.
type IEEEScanner struct{ scanner }

// NewIEEEScanner erstellt den IEEE-Scanner.
func NewIEEEScanner(dice *Dice, catalog Catalog, logger *zap.Logger) *IEEEScanner {
	return &IEEEScanner{newScanner(dice, catalog, logger)}
}

// Name gibt den Namen des Providers zurück.
func (s *IEEEScanner) Name() string { return "ieee" }

// Discover liefert mit Wahrscheinlichkeit 0.5 den Übersichtsartikel.
func (s *IEEEScanner) Discover(ctx context.Context, query string) ([]models.Paper, error) {
	log := s.logger.With(zap.String("provider", s.Name()), zap.String("query", query))
	return scanEach(ctx, log, []Source{s.catalog.IEEE}, func(src Source) ([]models.Paper, error) {
		if err := visit(src); err != nil {
			return nil, err
		}
		if !s.dice.Chance(0.5) {
			return nil, nil
		}
		found := s.now()
		return []models.Paper{{
			Title:         "Advanced Dexterous Manipulation Systems: A Comprehensive Review",
			Authors:       []string{"Dr. Research Lead", "Prof. Academic"},
			Abstract:      models.Ptr("This comprehensive review examines the current state of dexterous manipulation systems, covering hardware advances, control algorithms, and future research directions."),
			Category:      models.Ptr(models.CategoryControl),
			PublishedDate: models.Ptr("2024-01-15"),
			URL:           models.Ptr(fmt.Sprintf("%s/document/%d", src.URL, s.dice.IntN(9999999))),
			Source:        models.Ptr(src.Name),
			Conference:    models.Ptr("IEEE International Conference on Robotics and Automation (ICRA)"),
			FoundAt:       &found,
		}}, nil
	})
}
