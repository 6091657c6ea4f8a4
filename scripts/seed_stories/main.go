package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/fatherhoodis/internal/apiclient"
	"github.com/fatherhoodis/internal/config"
	"github.com/fatherhoodis/internal/service"
)

// 测试数据生成器：通过后端 API 生成并保存示例作品
func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	count := flag.Int("n", len(seedStories), "number of stories to create")
	author := flag.String("author", "Seed Dad", "author name attached to the stories")
	flag.Parse()

	client := apiclient.NewClient(cfg.APIBaseURL)
	fmt.Printf("开始生成测试数据 (%s)...\n", client.BaseURL())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	saved, err := seed(ctx, service.NewComposer(client, client), *count, *author)
	if err != nil {
		log.Fatalf("测试数据生成中断: %v", err)
	}

	fmt.Println("测试数据生成完成！")
	for _, post := range saved {
		fmt.Printf("✅ %s  Fatherhood is... %s\n", post.ID, post.Text)
	}
}

var seedStories = []string{
	"teaching my daughter to ride a bike",
	"reading bedtime stories every night",
	"playing catch in the backyard",
	"being there for the first steps",
	"sharing my favorite childhood memories",
	"building a treehouse together",
	"pancakes shaped like dinosaurs on Sunday mornings",
	"learning to braid hair from YouTube videos",
}

// seed walks each story through generate and save. Rate-limited stories are
// skipped; any other failure stops the run.
func seed(ctx context.Context, composer *service.Composer, count int, author string) ([]apiclient.Post, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", count)
	}
	if count > len(seedStories) {
		count = len(seedStories)
	}

	saved := make([]apiclient.Post, 0, count)
	for _, text := range seedStories[:count] {
		draft := service.NewDraft()
		if err := composer.Generate(ctx, draft, text, author); err != nil {
			if errors.Is(err, apiclient.ErrRateLimited) {
				log.Printf("[seed] rate limited, skipping %q: %s", text, draft.Error)
				continue
			}
			return saved, fmt.Errorf("generate %q: %w", text, err)
		}

		post, err := composer.Save(ctx, draft)
		if err != nil {
			return saved, fmt.Errorf("save %q: %w", text, err)
		}
		saved = append(saved, post)
	}
	return saved, nil
}
