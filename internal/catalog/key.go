package catalog

// Key identifies a navigation section.
type Key string

const (
	KeyLanding           Key = "landing"
	KeyDataOverview      Key = "data-overview"
	KeyDataPreparation   Key = "data-preparation"
	KeyFeatureSelection  Key = "feature-selection"
	KeyEDA               Key = "eda"
	KeyFinalModel        Key = "final-model"
	KeyFeatureImportance Key = "feature-importance"
	KeyRecommendations   Key = "recommendations"
	KeyRecommender       Key = "recommender"
)

// AllKeys returns every section key in display order.
func AllKeys() []Key {
	return []Key{
		KeyLanding,
		KeyDataOverview,
		KeyDataPreparation,
		KeyFeatureSelection,
		KeyEDA,
		KeyFinalModel,
		KeyFeatureImportance,
		KeyRecommendations,
		KeyRecommender,
	}
}

// IsKnown reports whether k is one of AllKeys.
func IsKnown(k Key) bool {
	for _, known := range AllKeys() {
		if k == known {
			return true
		}
	}
	return false
}
