package usecase

const (
	// OCRSystemPrompt は文字起こしモデルに与えるシステム指示です。
	OCRSystemPrompt = "You are an Optical Character Recognition (OCR) machine. " +
		"Extract all text from the image and return only the raw text."

	// FieldsSystemPrompt は氏名・会社名抽出モデル（JSONモード）に与えるシステム指示です。
	FieldsSystemPrompt = "あなたは JSON モードで応答するアシスタントです。" +
		"テキストから氏名と会社名を抽出し、{'name', 'company'} の JSON を返してください。"

	// ResearchPromptTemplate は企業検索のプロンプトテンプレートです。%s に会社名をそのまま埋め込みます。
	ResearchPromptTemplate = "%s の会社概要と直近のプレスリリースを教えて。フレンドリーな口調で返事をして。" +
		"また、その会社の人が目の前にいます。より親睦が深まるように芸人のごとく取り計らって"
)
