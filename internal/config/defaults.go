package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "openai"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 1000
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 200
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 5
	}
	if cfg.RAG.MaxContextChars == 0 {
		cfg.RAG.MaxContextChars = 12000
	}
	if cfg.RAG.HistoryTurns == 0 {
		cfg.RAG.HistoryTurns = 5
	}
	if cfg.RAG.MinChunkChars == 0 {
		cfg.RAG.MinChunkChars = 50
	}
	if cfg.RAG.MinAlphaRatio == 0 {
		cfg.RAG.MinAlphaRatio = 0.3
	}
	if cfg.RAG.MinScore == 0 {
		cfg.RAG.MinScore = 0.1
	}
	if cfg.RAG.MaxFileSizeMB == 0 {
		cfg.RAG.MaxFileSizeMB = 50
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1000
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "chromem"
	}
	if cfg.Storage.PersistDir == "" {
		cfg.Storage.PersistDir = "./chromemdb"
	}
	if cfg.Storage.Collection == "" {
		cfg.Storage.Collection = "study_documents"
	}
	if cfg.Exam.MultipleChoice == 0 && cfg.Exam.TrueFalse == 0 &&
		cfg.Exam.ShortAnswer == 0 && cfg.Exam.Essay == 0 {
		cfg.Exam.MultipleChoice = 5
		cfg.Exam.TrueFalse = 5
		cfg.Exam.ShortAnswer = 3
		cfg.Exam.Essay = 2
	}
	if cfg.Exam.Difficulty == "" {
		cfg.Exam.Difficulty = "medium"
	}
	if cfg.Exam.ContextChars == 0 {
		cfg.Exam.ContextChars = 16000
	}
}
