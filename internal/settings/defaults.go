package settings

import "github.com/goliatone/go-cms-admin/pkg/interfaces"

// DefaultRecords returns the records served when no valid blob is stored.
func DefaultRecords() []interfaces.Setting {
	return []interfaces.Setting{
		{Name: LanguagesSetting, Value: "EN:English,RU:Russian"},
		{Name: TagsSetting, Lang: "EN", Value: "news,lesson,grammar,vocabulary,audio,video"},
		{Name: TagsSetting, Lang: "RU", Value: "новости,урок,грамматика,лексика,аудио,видео"},
	}
}
