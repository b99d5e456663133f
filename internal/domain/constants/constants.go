package constants

// Fuzzy matching
const (
	// FuzzyMaxCandidates max product labels returned by the similarity tier
	FuzzyMaxCandidates = 5

	// FuzzyCutoff similarity a candidate must exceed (0.0-1.0)
	FuzzyCutoff = 0.3
)

// Reply
const (
	// DefaultReplyChunkLimit max runes per outbound message
	DefaultReplyChunkLimit = 1900

	// DefaultGroupItemCap distinct items listed per type group
	DefaultGroupItemCap = 30

	// LineMaxMessagesPerReply LINE rejects reply requests with more messages
	LineMaxMessagesPerReply = 5

	// TelegramMaxMessageLength Telegram hard limit per message
	TelegramMaxMessageLength = 4096
)

// Trigger phrases
const (
	// PriceTriggerPhrase switches the session into AwaitingCropName
	PriceTriggerPhrase = "即時資訊"
)

// UnavailableTriggerPhrases menu entries that are not built yet
var UnavailableTriggerPhrases = []string{
	"食譜推薦",
	"營養資訊",
	"產地直送",
	"聯絡我們",
}

// HelpKeywords texts answered with the usage hint
var HelpKeywords = []string{
	"使用說明",
	"說明",
	"help",
	"/help",
	"/start",
}

// Price table column headers (MOA open data export)
const (
	ColumnDate          = "日期"
	ColumnMarket        = "市場"
	ColumnProduct       = "產品"
	ColumnAveragePrice  = "平均價(元/公斤)"
	ColumnPercentChange = "跟前一交易日比較%"
	ColumnTradeVolume   = "交易量(公斤)"
)

// Seasonality table column headers
const (
	ColumnType    = "類別"
	ColumnItem    = "品項"
	ColumnVariety = "品種"
	ColumnCounty  = "縣市"
	ColumnMonth   = "月份"
)

// User facing messages
const (
	MsgPricePrompt       = "請輸入想查詢的水果名稱（例如：香蕉、芭樂、火龍果）"
	MsgNotAvailable      = "此功能尚未開放，敬請期待！"
	MsgDataUnavailable   = "⚠️ 抱歉，目前無法取得市場價格資料，請稍後再試。"
	MsgSeasonUnavailable = "⚠️ 抱歉，目前無法取得產季資料，請稍後再試。"
	MsgCatchAll          = "查無相關產季資料，請確認輸入的農產品名稱、地區或月份。"
	MsgRateLimited       = "⏳ 訊息過於頻繁，請稍後再試"
	MsgBusy              = "⚠️ 系統忙碌中，請稍後再試。"
	MsgInternalError     = "⚠️ 系統發生錯誤，請稍後再試。"
	MsgTimeout           = "⏱️ 查詢逾時，請稍後再試。"
	MsgWelcome           = "🍌 歡迎使用好食果農產品查詢小幫手！"
	MsgUnknownCommand    = "未知的指令，輸入 /help 查看使用說明。"

	MsgUsageHint = "📖 使用說明\n" +
		"• 輸入「即時資訊」後再輸入品名，查詢最新批發市場行情\n" +
		"• 輸入月份（例如：7月、7月水果），查詢當月盛產農產品\n" +
		"• 輸入地區（例如：嘉義、台南蔬菜），查詢當地特產\n" +
		"• 輸入品名（例如：香蕉、芭樂），查詢產期與產地\n" +
		"• 多個品名可用「、」或逗號分隔"
)
