// Package nlquery turns natural-language inventory questions into guarded
// SQL and summarizes the results, plus the deterministic fast-path search
// used during vehicle selection.
package nlquery

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"dealerchat/internal/ai"
	"dealerchat/internal/interfaces"
	"dealerchat/internal/models"
)

const generateSQLSystemPrompt = `You translate dealership inventory questions into a single PostgreSQL SELECT statement.

The only table is:
vehicles(id, stock_number, vin, year, make, model, trim, body_style, exterior_color, price, mileage, image_url, created_at)

Rules:
- Match text attributes case-insensitively and partially: LOWER(column) LIKE '%value%'.
- When the question mentions several attributes (a color and a model, a body style and a make), combine every one of them with AND. Never drop an attribute.
- For superlative questions (most, cheapest, newest) use GROUP BY with ORDER BY ... DESC LIMIT 5 so ties are visible.
- For "how many" style questions use SELECT COUNT(*).
- Otherwise use SELECT * with LIMIT 20.
- Output exactly one SELECT statement against the vehicles table, nothing else.
- Do not use column aliases, JOINs, UNIONs, subqueries, comments, or semicolons.
- Do not wrap the statement in markdown.`

const summarizeSystemPrompt = `You summarize inventory query results for a dealership assistant.

Rules:
- Answer the question directly in one or two sentences.
- Do not add filler like "how can I help" or "let me know".
- If several results tie for the top spot, say so explicitly.
- Never enumerate individual vehicles in prose; matching vehicles are shown to the user as cards.
- If there are no results, say so plainly and suggest loosening the search.`

// Result is a completed NL query turn.
type Result struct {
	Answer    string
	SQL       string
	Aggregate bool
	Rows      []map[string]any
	Vehicles  []models.Vehicle
}

// Engine is the two-stage NL-to-SQL pipeline: generate a SELECT with the
// LLM, validate it against the allow-list, execute it, then summarize the
// result set with a second LLM call.
type Engine struct {
	llm      ai.Completer
	vehicles interfaces.VehicleRepository
}

func NewEngine(llm ai.Completer, vehicles interfaces.VehicleRepository) *Engine {
	return &Engine{llm: llm, vehicles: vehicles}
}

// Answer runs the full pipeline for one question. history provides the
// last few turns of conversational context for follow-up questions.
func (e *Engine) Answer(ctx context.Context, question string, history []models.ConversationMessage) (*Result, error) {
	raw, err := e.llm.Complete(ctx, generateSQLSystemPrompt, sqlUserPrompt(question, history))
	if err != nil {
		return nil, fmt.Errorf("generate sql: %w", err)
	}

	query, err := ValidateSelect(cleanSQL(raw))
	if err != nil {
		log.Printf("rejected generated sql %q: %v", raw, err)
		return nil, fmt.Errorf("generated sql rejected: %w", err)
	}

	rows, err := e.vehicles.ExecuteSelect(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	answer, err := e.summarize(ctx, question, rows)
	if err != nil {
		return nil, fmt.Errorf("summarize results: %w", err)
	}

	result := &Result{
		Answer:    answer,
		SQL:       query,
		Aggregate: IsAggregate(query),
		Rows:      rows,
	}
	if !result.Aggregate {
		result.Vehicles = rowsToVehicles(rows)
	}
	return result, nil
}

func sqlUserPrompt(question string, history []models.ConversationMessage) string {
	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		start := len(history) - 3
		if start < 0 {
			start = 0
		}
		for _, m := range history[start:] {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}

func (e *Engine) summarize(ctx context.Context, question string, rows []map[string]any) (string, error) {
	sample := rows
	if len(sample) > 20 {
		sample = sample[:20]
	}
	encoded, err := json.Marshal(sample)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("Question: %s\nResult rows (%d total): %s", question, len(rows), encoded)
	return e.llm.Complete(ctx, summarizeSystemPrompt, prompt)
}

// cleanSQL strips markdown fences the model sometimes wraps output in.
func cleanSQL(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```sql")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func rowsToVehicles(rows []map[string]any) []models.Vehicle {
	vehicles := make([]models.Vehicle, 0, len(rows))
	for _, row := range rows {
		v := models.Vehicle{
			ID:            asString(row["id"]),
			StockNumber:   asString(row["stock_number"]),
			VIN:           asString(row["vin"]),
			Year:          asInt(row["year"]),
			Make:          asString(row["make"]),
			Model:         asString(row["model"]),
			Trim:          asString(row["trim"]),
			BodyStyle:     asString(row["body_style"]),
			ExteriorColor: asString(row["exterior_color"]),
			Price:         asFloat(row["price"]),
			Mileage:       asInt(row["mileage"]),
			ImageURL:      asString(row["image_url"]),
		}
		if v.StockNumber == "" && v.Make == "" && v.Model == "" {
			// Projection did not include vehicle columns; nothing to render.
			continue
		}
		vehicles = append(vehicles, v)
	}
	return vehicles
}

func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	}
	return ""
}

func asInt(v any) int {
	switch val := v.(type) {
	case int64:
		return int(val)
	case int:
		return val
	case float64:
		return int(val)
	}
	return 0
}

func asFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case []byte:
		var f float64
		fmt.Sscanf(string(val), "%f", &f)
		return f
	case string:
		var f float64
		fmt.Sscanf(val, "%f", &f)
		return f
	}
	return 0
}
