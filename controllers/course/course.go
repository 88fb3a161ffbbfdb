package controllers

import (
	"encoding/json"
	"log"

	"prepo/database"
	"prepo/middleware"
	"prepo/models"
	"prepo/utils"

	"github.com/gofiber/fiber/v2"
)

// courseWithStats decorates a course with its derived enrollment count.
// The count is computed from confirmed registrations at read time instead
// of an incremented column, so it cannot drift.
type courseWithStats struct {
	models.Course
	Enrollments int64 `json:"enrollments"`
}

func attachEnrollmentCount(course models.Course) courseWithStats {
	var count int64
	database.Database.Db.Model(&models.CourseRegistration{}).
		Where("course_code = ? AND status = ?", course.Code, models.RegistrationStatusConfirmed).
		Count(&count)
	return courseWithStats{Course: course, Enrollments: count}
}

// GetAllCourses lists courses, optionally filtered by mentor address
func GetAllCourses(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Where("is_deleted = false")
	if mentor := c.Query("mentor"); mentor != "" {
		query = query.Where("mentor_address = ?", utils.NormalizeAddress(mentor))
	}

	var courses []models.Course
	if err := query.Order("created_at desc").Find(&courses).Error; err != nil {
		log.Printf("Error fetching courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	result := make([]courseWithStats, 0, len(courses))
	for _, course := range courses {
		result = append(result, attachEnrollmentCount(course))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", result)
}

// CreateCourse creates a course from JSON or multipart form data. Multipart
// requests may carry a PDF of course material which is stored and served
// from the public files directory.
func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title         string  `json:"title"`
		Description   string  `json:"description"`
		Category      string  `json:"category"`
		Level         string  `json:"level"`
		Duration      string  `json:"duration"`
		Fee           float64 `json:"fee"`
		MentorAddress string  `json:"mentorAddress"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	files := []string{}
	if file, err := c.FormFile("file"); err == nil && file != nil {
		url, err := utils.SaveUploadedFile(file, "./public/files")
		if err != nil {
			log.Printf("Error saving course file: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store course file!", nil)
		}
		files = append(files, url)
	}
	filesJSON, _ := json.Marshal(files)

	course := models.Course{
		Code:          utils.GenerateUniqueCode(),
		Title:         reqData.Title,
		Description:   reqData.Description,
		Category:      reqData.Category,
		Level:         reqData.Level,
		Duration:      reqData.Duration,
		Fee:           reqData.Fee,
		MentorAddress: utils.NormalizeAddress(reqData.MentorAddress),
		Files:         filesJSON,
	}

	// The code column is unique; regenerate and retry on a collision
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if err = database.Database.Db.Create(&course).Error; err == nil || !utils.IsUniqueViolation(err) {
			break
		}
		course.ID = 0
		course.Code = utils.GenerateUniqueCode()
	}
	if err != nil {
		log.Printf("Error saving course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course created successfully!", course)
}

// GetCourseDetails fetches one course by code
func GetCourseDetails(c *fiber.Ctx) error {
	code := c.Locals("courseCode").(string)

	var course models.Course
	if err := database.Database.Db.Where("code = ? AND is_deleted = false", code).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", attachEnrollmentCount(course))
}

// DeleteCourse soft-deletes a course by code
func DeleteCourse(c *fiber.Ctx) error {
	code := c.Locals("courseCode").(string)

	res := database.Database.Db.Model(&models.Course{}).
		Where("code = ? AND is_deleted = false", code).
		Update("is_deleted", true)
	if res.Error != nil {
		log.Printf("Error deleting course: %v", res.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// UpdateCourseModules replaces the module tree of a course
func UpdateCourseModules(c *fiber.Ctx) error {
	code := c.Locals("courseCode").(string)

	var body struct {
		Modules json.RawMessage `json:"modules"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Modules) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing modules!", nil)
	}

	res := database.Database.Db.Model(&models.Course{}).
		Where("code = ? AND is_deleted = false", code).
		Update("modules", []byte(body.Modules))
	if res.Error != nil {
		log.Printf("Error updating course modules: %v", res.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update modules!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules updated successfully!", nil)
}
