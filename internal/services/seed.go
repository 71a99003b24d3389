package services

import (
	"context"

	"viralhub-backend-go/internal/models"
	"viralhub-backend-go/internal/storage"
)

// DemoUserID is the placeholder identity used when no authenticated user is present.
const DemoUserID = "demo_user_1"

type SeedResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
	Created bool   `json:"-"`
}

type seedAssistant struct {
	Name         string
	Role         string
	SystemPrompt string
	Temperature  float64
}

var demoAssistants = []seedAssistant{
	{Name: "Cerebro Central", Role: "Coordinador Estratégico", SystemPrompt: "Sistema maestro que coordina todos los asistentes.", Temperature: 0.7},
	{Name: "Asistente A", Role: "SEO & Estrategia", SystemPrompt: "Especialista en SEO y arquitectura de contenido.", Temperature: 0.5},
	{Name: "Asistente B", Role: "Técnica & Backend", SystemPrompt: "Especialista en arquitectura técnica y backend.", Temperature: 0.4},
	{Name: "Asistente C", Role: "Monetización", SystemPrompt: "Especialista en modelos de monetización y SaaS.", Temperature: 0.6},
	{Name: "Asistente D", Role: "Datos & Optimización", SystemPrompt: "Especialista en métricas, análisis y optimización.", Temperature: 0.3},
	{Name: "Asistente J", Role: "Gobernanza & GitHub", SystemPrompt: "Especialista en control de versiones y gobernanza técnica.", Temperature: 0.4},
}

// SeedDemoAssistants inserts the fixed assistant set for the demo user unless it
// already owns assistants, in which case nothing is written.
func SeedDemoAssistants(ctx context.Context, store storage.Gateway) (SeedResult, error) {
	existing, err := store.CountUserAssistants(ctx, DemoUserID)
	if err != nil {
		return SeedResult{}, err
	}
	if existing > 0 {
		return SeedResult{Message: "Ya existen asistentes", Count: existing}, nil
	}

	if _, ok, err := store.GetUser(ctx, DemoUserID); err != nil {
		return SeedResult{}, err
	} else if !ok {
		if _, err := store.UpsertUser(ctx, models.UserProfile{ID: DemoUserID}); err != nil {
			return SeedResult{}, err
		}
	}

	active := true
	for _, item := range demoAssistants {
		temperature := item.Temperature
		if _, err := store.CreateAssistant(ctx, models.NewAssistant{
			UserID:       DemoUserID,
			Name:         item.Name,
			Role:         item.Role,
			SystemPrompt: item.SystemPrompt,
			Temperature:  &temperature,
			Active:       &active,
		}); err != nil {
			return SeedResult{}, err
		}
	}
	return SeedResult{Message: "Seed completado correctamente", Count: len(demoAssistants), Created: true}, nil
}
