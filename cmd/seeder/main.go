package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/poiesic/docquery"
	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
)

// seedUnit is one row of the embedded demo corpus.
type seedUnit struct {
	documentID   core.ID
	unitType     string
	level        int
	sectionTitle string
	text         string
}

// A small trilingual labor-code excerpt: one English document, one Uzbek,
// one Russian, each with headings, paragraphs and cross-references.
var corpus = []seedUnit{
	{1, "heading", 1, "", "Article 27. Annual leave"},
	{1, "paragraph", 2, "Article 27. Annual leave", "Every employee has the right to annual paid leave of at least fifteen working days."},
	{1, "paragraph", 2, "Article 27. Annual leave", "Annual leave may be postponed to the next working year only with the employee's written consent."},
	{1, "paragraph", 2, "Article 27. Annual leave", "Compensation for unused leave is governed by Article 28."},
	{1, "heading", 1, "", "Article 28. Compensation for unused leave"},
	{1, "paragraph", 2, "Article 28. Compensation for unused leave", "On termination of the employment contract, monetary compensation is paid for all unused days of annual leave."},

	{2, "heading", 1, "", "27-modda. Mehnat ta'tili"},
	{2, "paragraph", 2, "27-modda. Mehnat ta'tili", "Har bir xodim kamida o'n besh ish kunidan iborat yillik haq to'lanadigan ta'til olish huquqiga ega."},
	{2, "paragraph", 2, "27-modda. Mehnat ta'tili", "Foydalanilmagan ta'til uchun kompensatsiya 28-modda bilan belgilanadi."},
	{2, "heading", 1, "", "28-modda. Kompensatsiya"},
	{2, "paragraph", 2, "28-modda. Kompensatsiya", "Mehnat shartnomasi bekor qilinganda foydalanilmagan ta'til kunlari uchun pul kompensatsiyasi to'lanadi."},

	{3, "heading", 1, "", "Статья 27. Ежегодный отпуск"},
	{3, "paragraph", 2, "Статья 27. Ежегодный отпуск", "Каждый работник имеет право на ежегодный оплачиваемый отпуск продолжительностью не менее пятнадцати рабочих дней."},
	{3, "paragraph", 2, "Статья 27. Ежегодный отпуск", "Компенсация за неиспользованный отпуск определяется статья 28."},
	{3, "heading", 1, "", "Статья 28. Компенсация"},
	{3, "paragraph", 2, "Статья 28. Компенсация", "При прекращении трудового договора выплачивается денежная компенсация за все неиспользованные дни отпуска."},
}

var (
	dbPath = flag.String("db", "./docquery_db", "path to BadgerDB database directory")
	tenant = flag.Uint64("tenant", 1, "tenant ID to seed")
	chat   = flag.Uint64("chat", 1, "chat ID to seed")
	aiHost = flag.String("ai-host", "http://localhost:11434/v1", "OpenAI-compatible service host URL")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func buildUnits(collection core.CollectionID) []*core.TextUnit {
	units := make([]*core.TextUnit, len(corpus))
	sequences := make(map[core.ID]int)

	for i, row := range corpus {
		seq := sequences[row.documentID]
		sequences[row.documentID] = seq + 1

		units[i] = &core.TextUnit{
			ID:           core.UnitIDFor(row.documentID, seq, row.text),
			Collection:   collection,
			DocumentID:   row.documentID,
			UnitType:     row.unitType,
			Text:         row.text,
			Sequence:     seq,
			Level:        row.level,
			SectionTitle: row.sectionTitle,
		}
	}
	return units
}

func main() {
	engine, err := docquery.Open(*dbPath, docquery.WithAIConfig(ai.NewConfig(ai.WithHost(*aiHost))))
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	collection := core.CollectionID{Tenant: core.ID(*tenant), Chat: core.ID(*chat)}
	units := buildUnits(collection)

	summary, err := engine.IndexCollection(context.Background(), collection, units)
	if err != nil {
		panic(err)
	}

	slog.Info("demo corpus seeded",
		"collection", collection.String(),
		"units", summary.Units,
		"graph_nodes", summary.GraphNodes,
		"graph_edges", summary.GraphEdges,
		"vector_points", summary.VectorPoints)
}
