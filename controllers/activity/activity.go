package activityController

import (
	"fmt"
	"log"
	"sort"
	"time"

	"prepo/database"
	"prepo/middleware"
	"prepo/models"

	"github.com/gofiber/fiber/v2"
)

type activityItem struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
	UserAddress string    `json:"userAddress"`
	Reward      string    `json:"reward"`
}

// GetActivities returns the 50 most recent platform events across
// analyses, quizzes, courses and bounties
func GetActivities(c *fiber.Ctx) error {
	db := database.Database.Db
	items := []activityItem{}

	var analyses []models.PdfAnalysis
	if err := db.Order("created_at desc").Limit(50).Find(&analyses).Error; err == nil {
		for _, a := range analyses {
			items = append(items, activityItem{
				Type:        "analysis",
				Title:       a.FileName,
				Description: "PDF analysis",
				Time:        a.CreatedAt,
				UserAddress: a.UserAddress,
			})
		}
	}

	var quizzes []models.GeneratedQuiz
	if err := db.Order("created_at desc").Limit(50).Find(&quizzes).Error; err == nil {
		for _, q := range quizzes {
			title := q.FileName
			if title == "" {
				title = "Generated Quiz"
			}
			items = append(items, activityItem{
				Type:        "quiz",
				Title:       title,
				Description: "Quiz generated",
				Time:        q.CreatedAt,
				UserAddress: q.UserAddress,
			})
		}
	}

	var courses []models.Course
	if err := db.Where("is_deleted = false").Order("created_at desc").Limit(50).Find(&courses).Error; err == nil {
		for _, course := range courses {
			items = append(items, activityItem{
				Type:        "course",
				Title:       course.Title,
				Description: course.Description,
				Time:        course.CreatedAt,
				UserAddress: course.MentorAddress,
			})
		}
	}

	var bounties []models.Bounty
	if err := db.Where("is_deleted = false").Order("created_at desc").Limit(50).Find(&bounties).Error; err == nil {
		for _, bounty := range bounties {
			items = append(items, activityItem{
				Type:        "bounty",
				Title:       bounty.Title,
				Description: bounty.Description,
				Time:        bounty.CreatedAt,
				UserAddress: bounty.MentorAddress,
				Reward:      fmt.Sprintf("%g CELO", bounty.PrizePool),
			})
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Time.After(items[j].Time) })
	if len(items) > 50 {
		items = items[:50]
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activities fetched!", items)
}

type leaderboardEntry struct {
	Rank    int     `json:"rank"`
	Address string  `json:"address"`
	Score   float64 `json:"score"`
	Reward  float64 `json:"reward"`
}

type leaderboard struct {
	Title    string             `json:"title"`
	Category string             `json:"category"`
	Entries  []leaderboardEntry `json:"entries"`
}

// GetLeaderboards builds a per-course top-3 ranking from stored quiz
// results
func GetLeaderboards(c *fiber.Ctx) error {
	db := database.Database.Db

	var courses []models.Course
	if err := db.Where("is_deleted = false").Find(&courses).Error; err != nil {
		log.Printf("Error fetching courses for leaderboards: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch leaderboards!", nil)
	}

	boards := make([]leaderboard, 0, len(courses))
	for _, course := range courses {
		var rows []struct {
			UserAddress string
			BestScore   float64
			Reward      float64
		}
		if err := db.Model(&models.QuizResult{}).
			Select("user_address, MAX(score) as best_score, COALESCE(SUM(reward), 0) as reward").
			Where("course_code = ?", course.Code).
			Group("user_address").
			Order("best_score desc").
			Limit(3).
			Scan(&rows).Error; err != nil {
			continue
		}

		entries := make([]leaderboardEntry, 0, len(rows))
		for i, row := range rows {
			entries = append(entries, leaderboardEntry{
				Rank:    i + 1,
				Address: row.UserAddress,
				Score:   row.BestScore,
				Reward:  row.Reward,
			})
		}

		boards = append(boards, leaderboard{
			Title:    course.Title + " Leaderboard",
			Category: course.Category,
			Entries:  entries,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboards fetched!", boards)
}
