package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"usaha-chatbot/catalog"
	"usaha-chatbot/models"
)

const defaultListLimit = 10

const internalErrorMessage = "Terjadi kesalahan internal. Silakan coba lagi."

const outOfScopeMessage = "Maaf, saya hanya bisa menjawab pertanyaan seputar data usaha. Coba tanyakan:\n" +
	"- Berapa jumlah usaha di suatu wilayah\n" +
	"- Daftar usaha dengan kategori atau status tertentu\n" +
	"- Informasi tentang sebuah usaha, misalnya \"Apa itu <nama usaha>?\""

// Catalog is the storage surface the engine queries.
type Catalog interface {
	Count(ctx context.Context, f catalog.Filter) (int64, error)
	List(ctx context.Context, f catalog.Filter, limit int) ([]models.Business, error)
	FindByName(ctx context.Context, name string) (*models.Business, error)
}

// Engine turns one chat message into one answer. It keeps no conversation
// state; every message stands alone.
type Engine struct {
	catalog   Catalog
	extractor Extractor
	listLimit int
}

func NewEngine(cat Catalog, extractor Extractor) *Engine {
	return &Engine{
		catalog:   cat,
		extractor: extractor,
		listLimit: defaultListLimit,
	}
}

func (e *Engine) Chat(ctx context.Context, message string) models.ChatResponse {
	entities := e.extractor.Extract(message)

	switch Classify(message) {
	case IntentCount:
		return e.answerCount(ctx, entities)
	case IntentList:
		if entities.IsZero() {
			return outOfScope()
		}
		return e.answerList(ctx, entities)
	case IntentBusinessInfo:
		if entities.BusinessName == "" {
			return outOfScope()
		}
		return e.answerBusinessInfo(ctx, entities.BusinessName)
	default:
		return outOfScope()
	}
}

// Samples are canned questions the UI offers as starting points.
func (e *Engine) Samples() []string {
	return []string{
		"Berapa jumlah usaha di Balikpapan Utara?",
		"Berapa total usaha dengan status aktif?",
		"Daftar usaha kategori perdagangan",
		"Tampilkan usaha di Balikpapan Selatan",
		"Sebutkan usaha dengan status nonaktif",
		"Apa itu Sembako Mukhlas?",
		"Ceritakan tentang usaha Berkah Jaya",
	}
}

func (e *Engine) answerCount(ctx context.Context, entities Entities) models.ChatResponse {
	filter := filterFrom(entities)

	count, err := e.catalog.Count(ctx, filter)
	if err != nil {
		slog.Error("failed to count businesses", "err", err)
		return internalError()
	}

	text := fmt.Sprintf("Terdapat %d usaha", count)
	if entities.Category != "" {
		text += " kategori " + strings.ToLower(entities.Category)
	}
	if entities.Status != "" {
		text += " dengan status " + entities.Status
	}
	if entities.Region != "" {
		text += " di " + entities.Region
	}
	text += "."

	return models.ChatResponse{
		Success:     true,
		Response:    text,
		MessageType: models.MessageTypeCount,
		Count:       &count,
	}
}

func (e *Engine) answerList(ctx context.Context, entities Entities) models.ChatResponse {
	filter := filterFrom(entities)

	businesses, err := e.catalog.List(ctx, filter, e.listLimit)
	if err != nil {
		slog.Error("failed to list businesses", "err", err)
		return internalError()
	}

	count := int64(len(businesses))
	if count == 0 {
		return models.ChatResponse{
			Success:     true,
			Response:    "Tidak ada usaha yang cocok dengan kriteria tersebut.",
			MessageType: models.MessageTypeList,
			Count:       &count,
		}
	}

	items := make([]models.BusinessSummary, 0, len(businesses))
	var lines []string
	for i, b := range businesses {
		items = append(items, b.Summary())
		lines = append(lines, fmt.Sprintf("%d. %s (%s) - %s", i+1, b.NamaUsaha, b.Kategori, b.Alamat))
	}

	text := fmt.Sprintf("Berikut %d usaha yang saya temukan:\n%s", count, strings.Join(lines, "\n"))

	return models.ChatResponse{
		Success:     true,
		Response:    text,
		MessageType: models.MessageTypeList,
		Count:       &count,
		Items:       items,
	}
}

func (e *Engine) answerBusinessInfo(ctx context.Context, name string) models.ChatResponse {
	business, err := e.catalog.FindByName(ctx, name)
	if err != nil {
		slog.Error("failed to look up business", "err", err, "name", name)
		return internalError()
	}

	if business == nil {
		return models.ChatResponse{
			Success:     true,
			Response:    fmt.Sprintf("Saya tidak menemukan usaha dengan nama '%s' di database.", name),
			MessageType: models.MessageTypeBusinessInfo,
		}
	}

	return models.ChatResponse{
		Success:      true,
		Response:     describeBusiness(business),
		MessageType:  models.MessageTypeBusinessInfo,
		BusinessData: business,
	}
}

// describeBusiness renders the record straight from its fields. Generation
// is reserved for the geocode-and-describe pipeline.
func describeBusiness(b *models.Business) string {
	var sb strings.Builder

	sb.WriteString(b.NamaUsaha)
	if b.Kategori != "" {
		sb.WriteString(" adalah usaha kategori ")
		sb.WriteString(strings.ToLower(b.Kategori))
	} else {
		sb.WriteString(" adalah usaha")
	}

	if b.Alamat != "" {
		sb.WriteString(" yang beralamat di ")
		sb.WriteString(b.Alamat)
	} else if region := b.RegionPath(); region != "" {
		sb.WriteString(" yang berlokasi di ")
		sb.WriteString(region)
	}
	sb.WriteString(".")

	if b.ProdukUtama != "" {
		sb.WriteString(" Produk utamanya adalah ")
		sb.WriteString(strings.ToLower(b.ProdukUtama))
		sb.WriteString(".")
	}
	if b.Status != "" {
		sb.WriteString(" Status usaha ini ")
		sb.WriteString(strings.ToLower(b.Status))
		sb.WriteString(".")
	}

	return sb.String()
}

func filterFrom(entities Entities) catalog.Filter {
	f := catalog.Filter{
		Region: entities.Region,
		Status: entities.Status,
	}
	if entities.Category != "" {
		f.Categories = []string{entities.Category}
	}
	return f
}

func outOfScope() models.ChatResponse {
	return models.ChatResponse{
		Success:     true,
		Response:    outOfScopeMessage,
		MessageType: models.MessageTypeOutOfScope,
	}
}

func internalError() models.ChatResponse {
	return models.ChatResponse{
		Success:     false,
		Response:    internalErrorMessage,
		MessageType: models.MessageTypeError,
	}
}
