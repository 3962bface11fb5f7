package eval

// Dimension identifies one of the four evaluation dimensions.
type Dimension string

const (
	DimScaleRichness       Dimension = "scale_richness"
	DimStructuralIntegrity Dimension = "structural_integrity"
	DimSemanticQuality     Dimension = "semantic_quality"
	DimEfficiency          Dimension = "efficiency"
)

// AllDimensions returns every dimension in report order.
func AllDimensions() []Dimension {
	return []Dimension{
		DimScaleRichness,
		DimStructuralIntegrity,
		DimSemanticQuality,
		DimEfficiency,
	}
}

// NotEvaluatedNote is the explanation attached to referee-dependent metrics
// when no referee is configured. The metric itself stays nil; it is never
// coerced to 0.
const NotEvaluatedNote = "not evaluated: requires referee"

// Metadata records how an evaluation was configured and which dimensions ran.
type Metadata struct {
	KGSummary           string   `json:"kg_summary"`
	RefereeAvailable    bool     `json:"referee_available"`
	SampleSize          int      `json:"sample_size"`
	SimilarityThreshold float64  `json:"similarity_threshold"`
	Seed                int64    `json:"seed"`
	IncludedDimensions  []string `json:"included_dimensions"`
}

// Result is the full outcome of one evaluation run. Dimensions that were not
// requested are nil.
type Result struct {
	Metadata            Metadata                `json:"evaluation_metadata"`
	ScaleRichness       *ScaleRichnessMetrics   `json:"scale_richness,omitempty"`
	StructuralIntegrity *StructuralMetrics      `json:"structural_integrity,omitempty"`
	SemanticQuality     *SemanticQualityMetrics `json:"semantic_quality,omitempty"`
	Efficiency          *EfficiencyMetrics      `json:"efficiency,omitempty"`
}

// TypeCount is one relationship-type bucket of the diversity distribution.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ScaleRichnessMetrics covers the breadth and depth of the extraction:
// raw counts, optional-property fill rates, and relationship-type diversity.
type ScaleRichnessMetrics struct {
	EntityCount       int `json:"entity_count"`
	RelationshipCount int `json:"relationship_count"`
	SourceTextCount   int `json:"source_text_count"`

	EntityPropertyFillRate       float64 `json:"entity_property_fill_rate"`
	RelationshipPropertyFillRate float64 `json:"relationship_property_fill_rate"`
	OverallPropertyFillRate      float64 `json:"overall_property_fill_rate"`

	UniqueRelationshipTypes      int         `json:"unique_relationship_types"`
	RelationshipTypeDistribution []TypeCount `json:"relationship_type_distribution"`
	RelationshipDiversityScore   float64     `json:"relationship_diversity_score"`
}

// CentralityStats summarizes the PageRank score distribution.
type CentralityStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Max  float64 `json:"max"`
	Min  float64 `json:"min"`
}

// EntityScore pairs an entity name with its PageRank score.
type EntityScore struct {
	EntityName string  `json:"entity_name"`
	Score      float64 `json:"score"`
}

// StructuralMetrics covers topology health: density, connectivity, and
// centrality distribution of the built directed graph.
type StructuralMetrics struct {
	// GraphDensity is relationships per entity over the raw knowledge-graph
	// counts; DirectedDensity is |E|/(|V|*(|V|-1)) over the built graph.
	// The two differ when relationships reference names missing from the
	// entity list, and are reported separately.
	GraphDensity    float64 `json:"graph_density"`
	DirectedDensity float64 `json:"directed_graph_density"`

	LargestComponentRatio     float64     `json:"largest_connected_component_ratio"`
	SingletonRatio            float64     `json:"singleton_ratio"`
	ConnectedComponentsCount  int         `json:"connected_components_count"`
	AverageComponentSize      float64     `json:"average_component_size"`
	ComponentSizeDistribution map[int]int `json:"component_size_distribution,omitempty"`

	AverageDegreeCentrality   float64         `json:"average_degree_centrality"`
	PageRankEntropy           float64         `json:"pagerank_entropy"`
	CentralityStats           CentralityStats `json:"centrality_distribution_stats"`
	TopCentralEntities        []EntityScore   `json:"top_central_entities,omitempty"`
	PageRankUnweightedFallback bool           `json:"pagerank_unweighted_fallback,omitempty"`
}

// AliasPair is a pair of entity names flagged as a potential duplicate.
type AliasPair struct {
	Name1      string  `json:"name1"`
	Name2      string  `json:"name2"`
	Similarity float64 `json:"similarity"`
}

// PrecisionBreakdown details the factual-precision referee verdicts.
type PrecisionBreakdown struct {
	TotalEvaluated   int    `json:"total_evaluated"`
	Correct          int    `json:"correct"`
	PartiallyCorrect int    `json:"partially_correct"`
	Incorrect        int    `json:"incorrect"`
	Error            string `json:"error,omitempty"`
}

// RelevanceBreakdown details the contextual-relevance referee judgements.
type RelevanceBreakdown struct {
	TotalEvaluated int    `json:"total_evaluated"`
	CoreFacts      int    `json:"core_facts"`
	MarginalFacts  int    `json:"marginal_facts"`
	Error          string `json:"error,omitempty"`
}

// SemanticQualityMetrics covers entity normalization plus the two
// referee-dependent metrics. FactualPrecision and ContextualRelevance are nil
// when no referee was configured; the accompanying notes say why.
type SemanticQualityMetrics struct {
	EntityNormalizationScore float64     `json:"entity_normalization_score"`
	PotentialAliasPairs      []AliasPair `json:"potential_alias_pairs"`
	AliasPairsCount          int         `json:"alias_pairs_count"`

	FactualPrecision        *float64            `json:"factual_precision"`
	FactualPrecisionDetails *PrecisionBreakdown `json:"factual_precision_details,omitempty"`
	FactualPrecisionNote    string              `json:"factual_precision_note,omitempty"`

	ContextualRelevance        *float64            `json:"contextual_relevance"`
	ContextualRelevanceDetails *RelevanceBreakdown `json:"contextual_relevance_details,omitempty"`
	ContextualRelevanceNote    string              `json:"contextual_relevance_note,omitempty"`
}

// EfficiencyMetrics covers how much structured knowledge was produced per
// unit of source text.
type EfficiencyMetrics struct {
	KnowledgeDensityPerChunk float64 `json:"knowledge_density_per_chunk"`
	TotalKnowledgeItems      int     `json:"total_knowledge_items"`
	TotalSourceChunks        int     `json:"total_source_chunks"`

	// Per-character rates are scaled to knowledge items per 1000 characters.
	EntitiesPerCharacter       float64 `json:"entities_per_character"`
	RelationshipsPerCharacter  float64 `json:"relationships_per_character"`
	AverageEntitiesPerSource   float64 `json:"average_entities_per_source"`
	AverageRelationsPerSource  float64 `json:"average_relationships_per_source"`
	AverageSourceTextLength    float64 `json:"average_source_text_length"`
	TotalTextLength            int     `json:"total_text_length"`

	ProductiveSourceRatio float64 `json:"productive_source_ratio"`
	ProductiveSources     int     `json:"productive_sources"`
	UnproductiveSources   int     `json:"unproductive_sources"`

	// Token-based rates; zero when the token encoder is unavailable.
	TotalSourceTokens     int     `json:"total_source_tokens"`
	AverageTokensPerSource float64 `json:"average_tokens_per_source"`
	KnowledgePerKilotoken float64 `json:"knowledge_per_kilotoken"`
}
