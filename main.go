package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mrsingh-rishi/interview-voice/audio"
	"github.com/mrsingh-rishi/interview-voice/llm"
	"github.com/mrsingh-rishi/interview-voice/pipeline"
	"github.com/mrsingh-rishi/interview-voice/session"
	"github.com/mrsingh-rishi/interview-voice/stt"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to environment variables")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY must be set")
	}

	ffmpegBin := os.Getenv("FFMPEG_BIN")
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}

	completer := llm.NewOpenAIClient(apiKey, os.Getenv("CHAT_MODEL"))
	pipe := pipeline.New(audio.NewConverter(ffmpegBin), stt.NewWhisperClient(apiKey), completer)

	s := &server{
		pipe:       pipe,
		completer:  completer,
		sessions:   session.NewStore(),
		founderKey: os.Getenv("FOUNDER_KEY"),
	}
	app := newApp(s)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	fmt.Printf("Fiber server listening on :%s\n", port)
	log.Fatal(app.Listen(":" + port))
}
