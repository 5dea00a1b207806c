package diagram

import (
	"bytes"
	"fmt"
	"strings"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
)

// Figure palette shared across all diagrams.
const (
	colorData    = "#E8F4F8"
	colorProcess = "#B8E6F0"
	colorModel   = "#FFE5B4"
	colorOutput  = "#D4F1D4"
	colorNode    = "#FFB6C1"
	colorEdge    = "#DDA0DD"
	colorGraph   = "#FFF8DC"
	colorSplit   = "#F0F0F0"
	colorInsight = "#FFFACD"
)

// Figure is one named paper figure with its DOT source.
type Figure struct {
	Name  string
	Title string
	DOT   string
}

// Figures returns all five paper figures in publication order.
func Figures() []Figure {
	return []Figure{
		SystemArchitecture(),
		DataPipeline(),
		GraphStructure(),
		ModelArchitecture(),
		TrainingWorkflow(),
	}
}

// ByName returns the figure with the given name.
func ByName(name string) (Figure, error) {
	for _, f := range Figures() {
		if f.Name == name {
			return f, nil
		}
	}
	return Figure{}, apperrors.New(apperrors.ErrCodeInvalidFigure, "unknown figure %q", name)
}

// FigureNames lists the valid figure names in publication order.
func FigureNames() []string {
	figures := Figures()
	names := make([]string, len(figures))
	for i, f := range figures {
		names[i] = f.Name
	}
	return names
}

type dotBuilder struct {
	buf bytes.Buffer
}

func newDotBuilder(title string) *dotBuilder {
	b := &dotBuilder{}
	b.buf.WriteString("digraph G {\n")
	b.buf.WriteString("  rankdir=TB;\n")
	b.buf.WriteString("  bgcolor=\"white\";\n")
	fmt.Fprintf(&b.buf, "  label=%q;\n", title)
	b.buf.WriteString("  labelloc=t;\n")
	b.buf.WriteString("  fontsize=20;\n")
	b.buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.25,0.15\"];\n")
	b.buf.WriteString("  ranksep=0.6;\n")
	b.buf.WriteString("  nodesep=0.4;\n\n")
	return b
}

func (b *dotBuilder) node(id, label, fill string, extra ...string) {
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", fill),
	}
	attrs = append(attrs, extra...)
	fmt.Fprintf(&b.buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
}

func (b *dotBuilder) edge(from, to string) {
	fmt.Fprintf(&b.buf, "  %q -> %q;\n", from, to)
}

func (b *dotBuilder) chain(ids ...string) {
	for i := 0; i+1 < len(ids); i++ {
		b.edge(ids[i], ids[i+1])
	}
}

func (b *dotBuilder) sameRank(ids ...string) {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = fmt.Sprintf("%q", id)
	}
	fmt.Fprintf(&b.buf, "  { rank=same; %s }\n", strings.Join(quoted, "; "))
}

func (b *dotBuilder) raw(s string) {
	b.buf.WriteString(s)
}

func (b *dotBuilder) String() string {
	return b.buf.String() + "}\n"
}

// SystemArchitecture is the overall system overview: data sources through
// processing and graph construction down to model outputs.
func SystemArchitecture() Figure {
	b := newDotBuilder("COVID-19 Viral Spread Prediction System Architecture")

	b.node("gisaid", "GISAID\nGenome Metadata\n(9.3M samples)", colorData)
	b.node("flights", "Flight Data\n(OpenSky)\n4.5M flights", colorData)
	b.node("tree", "Phylogenetic\nTree\n(.nwk)", colorData)
	b.node("coords", "Airport\nCoordinates", colorData)
	b.sameRank("gisaid", "flights", "tree", "coords")

	b.node("temporal_filter", "Temporal Filtering\n(Jan-Apr 2020)", colorProcess)
	b.node("spatial_map", "Spatial Mapping\n(KD-Tree)", colorProcess)
	b.node("lineage_extract", "Lineage Extraction\n(Pango)", colorProcess)
	b.sameRank("temporal_filter", "spatial_map", "lineage_extract")

	b.node("graph",
		"Heterogeneous Graph\nNodes: 12,900 Airports + 255 Lineages\nEdges: Flight (1M) | Sampled_at (5.8K) | Evolves_from (54) | Temporal (3.4K)\nFeatures: One-hot encoding + Temporal attributes",
		colorGraph, "penwidth=3")

	b.node("model",
		"Heterogeneous Graph Transformer (HGT)\n2 Layers | 2 Attention Heads | Hidden Dim: 32\nLink Prediction: Lineage -> Airport (Binary Cross-Entropy)",
		colorModel, "penwidth=3")

	b.node("risk", "Risk Scores\nper Airport", colorOutput)
	b.node("spread", "Lineage Spread\nPrediction", colorOutput)
	b.node("metrics", "Evaluation\nMetrics", colorOutput)
	b.sameRank("risk", "spread", "metrics")

	b.edge("gisaid", "temporal_filter")
	b.edge("gisaid", "lineage_extract")
	b.edge("flights", "temporal_filter")
	b.edge("tree", "lineage_extract")
	b.edge("coords", "spatial_map")
	b.edge("temporal_filter", "graph")
	b.edge("spatial_map", "graph")
	b.edge("lineage_extract", "graph")
	b.edge("graph", "model")
	b.edge("model", "risk")
	b.edge("model", "spread")
	b.edge("model", "metrics")

	return Figure{Name: "architecture", Title: "Overall system overview", DOT: b.String()}
}

// DataPipeline is the six-step data processing sequence.
func DataPipeline() Figure {
	b := newDotBuilder("Data Processing Pipeline")

	steps := []struct {
		id    string
		label string
		color string
	}{
		{"load", "1. Load Raw Data\nGISAID Metadata: 9.3M genome samples\nFlight Data: 4.5M flights (Jan-Apr 2020)\nPhylogenetic Tree: Newick format\nAirport Coordinates: 12,900 airports", colorData},
		{"filter", "2. Temporal Filtering\nFilter genomes: 2020-01-01 to 2020-04-30\n65,215 samples -> 64,504 after removing unclassifiable\nExtract Pango lineages\nParse dates and create weekly periods", colorProcess},
		{"spatial", "3. Spatial Mapping (KD-Tree)\nBuild KD-Tree from airport coordinates\nMap each genome location to nearest airport\nDistance threshold: < 500 km\n402 unique locations mapped", colorProcess},
		{"edges", "4. Edge Construction\nFlight edges: Origin -> Destination (weekly aggregation)\nSample edges: Lineage -> Airport (weekly counts)\nPhylogenetic edges: Parent lineage -> Child lineage\nTemporal edges: Same lineage across consecutive weeks", colorProcess},
		{"aggregate", "5. Graph Aggregation\nWeekly aggregation: Reduce temporal granularity\nFilter rare lineages: >= 10 samples globally\n255 lineages, 12,900 airports, 18 weeks\nCreate node indices and mappings", colorProcess},
		{"split", "6. Train/Test Split\nTemporal split: First 14 weeks (training)\nLast 4 weeks (testing)\nPrevent data leakage: Filter future edges\n3,657 train edges, 2,205 test edges", colorOutput},
	}

	ids := make([]string, len(steps))
	for i, s := range steps {
		b.node(s.id, s.label, s.color)
		ids[i] = s.id
	}
	b.chain(ids...)

	return Figure{Name: "pipeline", Title: "Data processing steps", DOT: b.String()}
}

// GraphStructure shows the node and edge types of the heterogeneous graph.
func GraphStructure() Figure {
	b := newDotBuilder("Heterogeneous Graph Structure")

	b.node("airport", "Airport\nCount: 12,900\nFeatures: One-hot (12,900-dim)\nAttributes: Lat, Lon, City, Country", colorNode, "shape=ellipse")
	b.node("lineage", "Lineage\nCount: 255\nFeatures: One-hot (255-dim)\nAttributes: Pango lineage name", colorNode, "shape=ellipse")
	b.sameRank("airport", "lineage")

	b.node("flight_edge", "Flight: Airport -> Airport\nCount: 1,070,596\nWeight: flight_count | Time: week_index", "#87CEEB")
	b.node("sampled_edge", "Sampled_at: Lineage -> Airport\nCount: 5,862\nWeight: sample_count | Time: week_index", "#98FB98")
	b.node("evolves_edge", "Evolves_from: Lineage -> Lineage\nCount: 54\nWeight: genetic_distance (from phylogenetic tree)", colorNode)
	b.node("temporal_edge", "Temporal: Lineage -> Lineage\nCount: 3,434\nSource_week, Target_week\nGrowth_rate: log(count_t+1) - log(count_t)", colorEdge)

	b.edge("airport", "flight_edge")
	b.edge("lineage", "sampled_edge")
	b.edge("lineage", "evolves_edge")
	b.edge("lineage", "temporal_edge")
	b.chain("flight_edge", "sampled_edge", "evolves_edge", "temporal_edge")

	return Figure{Name: "graph", Title: "Heterogeneous graph details", DOT: b.String()}
}

// ModelArchitecture shows the HGT layer stack from input features to output
// embeddings.
func ModelArchitecture() Figure {
	b := newDotBuilder("Heterogeneous Graph Transformer (HGT) Architecture")

	b.node("in_airport", "Airport Features\n[12900, 12900]", colorData)
	b.node("in_lineage", "Lineage Features\n[255, 255]", colorData)
	b.node("in_edges", "Edge Indices & Attributes\n(4 edge types)", colorData)
	b.sameRank("in_airport", "in_lineage", "in_edges")

	b.node("projection", "Linear Projection Layer\nAirport: [12900] -> [32]  |  Lineage: [255] -> [32]", colorProcess)

	hgtLabel := "Message Passing (Multi-head Attention: 2 heads)\nType-specific transformations\nAggregation across edge types\nReLU Activation + Dropout (0.6)"
	b.node("hgt1", "HGT Layer 1\n"+hgtLabel, colorModel, "penwidth=3")
	b.node("hgt2", "HGT Layer 2\n"+hgtLabel, colorModel, "penwidth=3")

	b.node("out_airport", "Airport Embeddings\n[12900, 32]", colorOutput)
	b.node("out_lineage", "Lineage Embeddings\n[255, 32]", colorOutput)
	b.sameRank("out_airport", "out_lineage")

	b.edge("in_airport", "projection")
	b.edge("in_lineage", "projection")
	b.edge("in_edges", "projection")
	b.chain("projection", "hgt1", "hgt2")
	b.edge("hgt2", "out_airport")
	b.edge("hgt2", "out_lineage")

	return Figure{Name: "model", Title: "HGT model architecture", DOT: b.String()}
}

// TrainingWorkflow shows the training and prediction phases side by side
// with the temporal split and methodological notes.
func TrainingWorkflow() Figure {
	b := newDotBuilder("Training and Prediction Workflow")

	b.raw("  subgraph cluster_train {\n    label=\"Training Phase\";\n    style=rounded;\n    bgcolor=\"" + colorModel + "\";\n")
	trainSteps := []struct{ id, label string }{
		{"t1", "1. Forward Pass\nInput: node features, edge indices\nOutput: Node embeddings (Airport: [12900,32], Lineage: [255,32])"},
		{"t2", "2. Edge Embedding\nExtract embeddings for positive edges (Lineage -> Airport)\nCompute dot product: score = src_emb . dst_emb"},
		{"t3", "3. Negative Sampling\nGenerate random negative edges\nSame number as positive edges"},
		{"t4", "4. Loss Calculation\nBinary Cross-Entropy Loss\nPositive edges -> label 1, Negative edges -> label 0"},
		{"t5", "5. Backpropagation\nOptimizer: Adam (lr=0.01)\nUpdate model parameters | Epochs: 100"},
	}
	for _, s := range trainSteps {
		b.node(s.id, s.label, colorProcess)
	}
	b.raw("  }\n")
	b.chain("t1", "t2", "t3", "t4", "t5")

	b.raw("  subgraph cluster_predict {\n    label=\"Prediction Phase\";\n    style=rounded;\n    bgcolor=\"" + colorOutput + "\";\n")
	predSteps := []struct{ id, label string }{
		{"p1", "1. Model Evaluation Mode\nDisable dropout"},
		{"p2", "2. Generate Embeddings\nForward pass on test graph\nGet airport & lineage embeddings"},
		{"p3", "3. Compute Risk Scores\nFor each (lineage, airport) pair:\nrisk = sigmoid(lineage_emb . airport_emb)"},
		{"p4", "4. Aggregate Risks\nSum risks across all active lineages\nIdentify high-risk airports"},
		{"p5", "5. Evaluation Metrics\nPrecision, Recall, F1-Score\nROC-AUC, PR-AUC, Top-K accuracy"},
	}
	for _, s := range predSteps {
		b.node(s.id, s.label, colorOutput)
	}
	b.raw("  }\n")
	b.chain("p1", "p2", "p3", "p4", "p5")

	b.node("temporal_split",
		"Temporal Train/Test Split\nTraining: Weeks 0-13 (Jan-Mar 2020) | Testing: Weeks 14-17 (Apr 2020)\nTrain Edges: 3,657 | Test Edges: 2,205 | Prevents data leakage",
		colorSplit, "penwidth=3")
	b.node("insights",
		"Key Methodological Insights\nLink Prediction Task: Predict future lineage-airport connections (viral spread)\nHeterogeneous Graph: Captures relationships between viral lineages and geographic locations\nTemporal Modeling: Weekly aggregation + temporal edges capture evolution dynamics\nMulti-relational Learning: HGT learns from flights, samples, phylogeny, and temporal patterns\nAttention Mechanism: 2-head attention weights edge types and neighbors\nNegative Sampling: Balances positive/negative examples for robust link prediction",
		colorInsight)

	b.edge("t5", "temporal_split")
	b.edge("p5", "temporal_split")
	b.edge("temporal_split", "insights")

	return Figure{Name: "workflow", Title: "Training and prediction workflow", DOT: b.String()}
}
