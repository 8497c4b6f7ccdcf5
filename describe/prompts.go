package describe

import (
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

var systemPrompt = `Kamu menulis deskripsi usaha ringkas dalam Bahasa Indonesia, nada netral, faktual. ` +
	`Gunakan HANYA data yang diberikan. Dilarang menambahkan klaim, opini, atau asumsi. ` +
	`JANGAN sebut koordinat. Maks 2 kalimat. Kalimat pertama WAJIB diawali dengan nama usaha persis seperti input.`

// Two fixed exchanges keep the model's phrasing stable across runs.
var fewShots = []llms.MessageContent{
	{
		Role: schema.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextPart("nama=WARUNG BAKSO PAK JOYO | kategori=Restoran | lokasi=Jalan Mawar, Lowokwaru, Malang, Jawa Timur"),
		},
	},
	{
		Role: schema.ChatMessageTypeAI,
		Parts: []llms.ContentPart{
			llms.TextPart("WARUNG BAKSO PAK JOYO adalah restoran yang menyajikan bakso di Jalan Mawar, Lowokwaru, Malang, Jawa Timur. Tempat ini cocok untuk santap cepat di kawasan sekitar."),
		},
	},
	{
		Role: schema.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextPart("nama=TOKO MEGA JAYA | kategori=Toko Furnitur | lokasi=Jalan Sudirman, Pekanbaru, Riau"),
		},
	},
	{
		Role: schema.ChatMessageTypeAI,
		Parts: []llms.ContentPart{
			llms.TextPart("TOKO MEGA JAYA adalah toko furnitur di Jalan Sudirman, Pekanbaru, Riau. Tersedia ragam perabot rumah tangga untuk kebutuhan harian."),
		},
	},
}
