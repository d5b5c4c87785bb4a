// Package export pushes ranked pipeline outcomes to external destinations.
package export

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/samtetlow/nof1-sub000/internal/model"
	"github.com/samtetlow/nof1-sub000/pkg/notion"
)

// NotionExporter writes one database page per ranked outcome.
type NotionExporter struct {
	client notion.Client
	dbID   string
}

// NewNotionExporter exports into the given Notion database. The database
// needs Name (title), Rank, Score (number), Level, Risk (select), and
// Solicitation, Recommendation (rich text) properties.
func NewNotionExporter(client notion.Client, dbID string) *NotionExporter {
	return &NotionExporter{client: client, dbID: dbID}
}

// Export creates a page for each outcome, preserving rank order. It stops
// at the first failure so a partial export is visible in the error.
func (e *NotionExporter) Export(ctx context.Context, sol model.Solicitation, outcomes []model.PipelineOutcome) error {
	for i, o := range outcomes {
		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(e.dbID),
			},
			Properties: notionapi.Properties{
				"Name": notionapi.TitleProperty{
					Title: richText(o.Match.CompanyName),
				},
				"Rank": notionapi.NumberProperty{
					Number: float64(i + 1),
				},
				"Score": notionapi.NumberProperty{
					Number: o.Validation.Score,
				},
				"Level": notionapi.SelectProperty{
					Select: notionapi.Option{Name: string(o.Validation.Level)},
				},
				"Risk": notionapi.SelectProperty{
					Select: notionapi.Option{Name: string(o.Validation.RiskLevel)},
				},
				"Solicitation": notionapi.RichTextProperty{
					RichText: richText(sol.Title),
				},
				"Recommendation": notionapi.RichTextProperty{
					RichText: richText(o.Validation.Recommendation),
				},
			},
		}
		if _, err := e.client.CreatePage(ctx, req); err != nil {
			return eris.Wrapf(err, "export: create page for %s (rank %d)", o.Match.CompanyName, i+1)
		}
		zap.L().Debug("export: page created",
			zap.String("company", o.Match.CompanyName),
			zap.Int("rank", i+1),
		)
	}
	return nil
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: s},
	}}
}
