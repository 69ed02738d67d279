// 导入课程文档脚本
//
// 从本地目录或 MinIO 存储桶（storage.type）读取 *.json / *.yaml / *.yml 课程文档，
// 按 (分类, 标题) 插入或更新。重复执行是安全的。
//
// 用法: go run scripts/seed_lessons.go -source content/lessons

package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/pkg/database"
	"lingua_edu_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	source := flag.String("source", "", "本地目录或存储桶前缀，默认使用 storage.local_path")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Printf("Redis 不可用，跳过缓存清理: %v", err)
		rdb = nil
	}

	src, err := service.NewLessonSource(&cfg.Storage, *source)
	if err != nil {
		log.Fatalf("课程来源配置错误: %v", err)
	}

	categories := repository.NewCategoryRepository(db)
	lessons := repository.NewLessonRepository(db)
	catalog := service.NewCatalogService(categories, lessons, rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
	seeder := service.NewSeedService(db, categories, lessons, catalog)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Println("开始导入课程...")
	report, err := seeder.Import(ctx, src)
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	log.Printf("导入完成: %d 节课成功, %d 个文件失败\n%s", len(report.Lessons), len(report.Failed), out)
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}
