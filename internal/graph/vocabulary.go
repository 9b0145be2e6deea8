package graph

import (
	"github.com/content-graph-api/internal/models"
)

// KindPair is an ordered (fromKind, toKind) endpoint pair
type KindPair struct {
	From models.Kind
	To   models.Kind
}

// vocabulary is the closed table of relation types permitted per endpoint
// kind pair. It is read-only and process-wide; adding an entry whose kind is
// not resolvable will fail the startup consistency check in NewResolver.
var vocabulary = map[KindPair][]models.RelationType{
	{models.KindGuide, models.KindConcept}: {
		models.RelGuideUsesConcept,
		models.RelGuideExpandsConcept,
	},
	{models.KindGuide, models.KindGuide}: {
		models.RelGuideRelatedToGuide,
	},
	{models.KindGuide, models.KindVideo}: {
		models.RelGuideHasVideo,
	},
	{models.KindConcept, models.KindConcept}: {
		models.RelConceptRelatedToConcept,
	},
	{models.KindProject, models.KindConcept}: {
		models.RelProjectAppliesConcept,
	},
	{models.KindProject, models.KindGuide}: {
		models.RelProjectFollowsGuide,
	},
	{models.KindNews, models.KindConcept}: {
		models.RelNewsMentionsConcept,
	},
	{models.KindNews, models.KindProject}: {
		models.RelNewsMentionsProject,
	},
	{models.KindNews, models.KindSourceItem}: {
		models.RelNewsDerivedFromSource,
	},
	{models.KindNews, models.KindDistributionEvent}: {
		models.RelNewsDistributedAs,
	},
	{models.KindSourceItem, models.KindSourceFeed}: {
		models.RelSourceItemFromFeed,
	},
	{models.KindMetricSnapshot, models.KindGuide}:   {models.RelSnapshotOf},
	{models.KindMetricSnapshot, models.KindConcept}: {models.RelSnapshotOf},
	{models.KindMetricSnapshot, models.KindProject}: {models.RelSnapshotOf},
	{models.KindMetricSnapshot, models.KindNews}:    {models.RelSnapshotOf},
}

// AllowedTypes returns the relation types permitted for a kind pair
func AllowedTypes(from, to models.Kind) []models.RelationType {
	return vocabulary[KindPair{From: from, To: to}]
}

// IsAllowed reports whether relType is permitted for the kind pair
func IsAllowed(from, to models.Kind, relType models.RelationType) bool {
	for _, t := range AllowedTypes(from, to) {
		if t == relType {
			return true
		}
	}
	return false
}

// VocabularyKinds returns every kind that appears as an endpoint in the
// vocabulary table
func VocabularyKinds() map[models.Kind]bool {
	kinds := make(map[models.Kind]bool)
	for pair := range vocabulary {
		kinds[pair.From] = true
		kinds[pair.To] = true
	}
	return kinds
}
