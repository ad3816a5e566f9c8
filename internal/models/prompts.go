package models

// Prompt templates for answer and exam generation. The answer prompts
// take the assembled context as their single format argument; the exam
// prompt takes question count, context, difficulty name and difficulty
// instructions, in that order.

const (
	// NoContextAnswer is returned without calling the completion API
	// when retrieval produced nothing usable.
	NoContextAnswer = "I couldn't find relevant information in your uploaded documents to answer this question. Please make sure you've uploaded relevant materials or try rephrasing your question."

	AnswerSystemPrompt = `You are a helpful AI study assistant. Answer the user's question based on the provided context from their academic documents.

Context from uploaded documents:
%s

Instructions:
1. Answer based primarily on the provided context
2. Be accurate and cite specific information from the documents
3. If the context doesn't fully answer the question, say so
4. Use clear, educational language
5. Structure your response for easy understanding`

	OverviewSystemPrompt = `You are a helpful AI study assistant. The user is asking for an overview of their uploaded document(s). Analyze the content below and provide a comprehensive summary.

Document Content:
%s

Instructions:
1. Identify the main subject/topic of the document(s)
2. Summarize the key themes and concepts covered
3. Highlight important sections or chapters
4. Be specific about what the document teaches or covers
5. Structure your response clearly with main points
6. Use information directly from the provided content`

	ExamSystemPrompt = "You are an expert educator creating exam questions. Respond only with valid JSON."

	MultipleChoicePrompt = `Create %d multiple choice questions based ONLY on the content provided below.

IMPORTANT: Focus on the core concepts, methods, procedures, and practical applications.
AVOID questions about standards, regulations, organizations, or administrative topics unless they are central to the content.

Content:
%s

Difficulty Level: %s
%s

Each question must have:
- Question text based on the content
- 4 answer choices (A, B, C, D)
- Correct answer marked
- Brief explanation

Respond with ONLY a valid JSON array:
[
  {
    "question": "Question about the content",
    "choices": {
      "A": "Option A",
      "B": "Option B",
      "C": "Option C",
      "D": "Option D"
    },
    "correct_answer": "A",
    "explanation": "Brief explanation"
  }
]`

	TrueFalsePrompt = `Create %d true/false questions based ONLY on the content provided below.

IMPORTANT: Focus on the core concepts, methods, procedures, and practical applications.

Content:
%s

Difficulty Level: %s
%s

Create statements that can be verified from the content provided.
Mix true and false statements evenly.

Respond with ONLY a valid JSON array:
[
  {
    "statement": "Statement about the content",
    "correct_answer": true,
    "explanation": "Brief explanation"
  }
]`

	ShortAnswerPrompt = `Create %d short answer questions based ONLY on the content provided below.

IMPORTANT: Focus on the core concepts, methods, procedures, and practical applications.

Content:
%s

Difficulty Level: %s
%s

Respond with ONLY a valid JSON array:
[
  {
    "question": "Question about the content",
    "answer": "Sample answer based on content",
    "key_points": "Key points to mention"
  }
]`

	EssayPrompt = `Create %d essay questions based ONLY on the content provided below.

IMPORTANT: Focus on the core concepts, methods, procedures, and practical applications.

Content:
%s

Difficulty Level: %s
%s

Respond with ONLY a valid JSON array:
[
  {
    "question": "Essay question about the content",
    "key_points": "Main points to address",
    "guidance": "Guidance for answering"
  }
]`
)

// DifficultyInstructions maps a difficulty level and question type to the
// instruction block injected into the generation prompt.
var DifficultyInstructions = map[QuestionType]map[Difficulty]string{
	MultipleChoice: {
		Easy:   "1. Focus on basic concepts, definitions, and direct facts\n2. Use straightforward, clear language\n3. Make correct answers obvious to someone who studied\n4. Test recall and recognition",
		Medium: "1. Test understanding and application of concepts\n2. Require some analysis and connection-making\n3. Include scenarios that apply the knowledge\n4. Balance recall with comprehension",
		Hard:   "1. Require analysis, synthesis, and evaluation\n2. Include complex scenarios and problem-solving\n3. Test ability to distinguish between similar concepts\n4. Require deep understanding of relationships",
		Expert: "1. Focus on critical thinking and expert-level analysis\n2. Include edge cases and complex applications\n3. Test mastery of nuanced distinctions\n4. Require integration of multiple concepts",
	},
	TrueFalse: {
		Easy:   "Create straightforward statements about basic facts and definitions",
		Medium: "Create statements that require understanding of concepts and their applications",
		Hard:   "Create statements that require analysis of relationships and complex reasoning",
		Expert: "Create statements that test mastery of nuanced distinctions and expert knowledge",
	},
	ShortAnswer: {
		Easy:   "Create questions asking for basic definitions, simple explanations, or direct facts (1-2 sentences)",
		Medium: "Create questions requiring explanation of concepts, processes, or applications (2-3 sentences)",
		Hard:   "Create questions requiring analysis, comparison, or synthesis of multiple concepts (3-4 sentences)",
		Expert: "Create questions requiring critical evaluation, complex reasoning, or expert insights (4-5 sentences)",
	},
	Essay: {
		Easy:   "Create questions asking for basic explanations or descriptions of concepts",
		Medium: "Create questions requiring detailed analysis, comparison, or application of concepts",
		Hard:   "Create questions requiring synthesis, evaluation, or complex problem-solving",
		Expert: "Create questions requiring critical analysis, original thinking, or expert-level evaluation",
	},
}

// OverviewKeywords route broad questions to document-overview retrieval
// instead of plain similarity search.
var OverviewKeywords = []string{
	"what is", "tell me about", "describe", "overview", "summary",
	"about the file", "content of", "main topic", "what does", "explain the document",
	"document all about", "summarize", "what does this cover", "main subject",
	"what are we learning", "course content", "lecture about",
}

// OverviewProbes are the queries used to pull representative sections
// when building a whole-document overview.
var OverviewProbes = []string{
	"introduction overview summary definition",
	"objectives goals purpose learning outcomes",
	"abstract conclusion summary",
	"introduction definition what is",
}
