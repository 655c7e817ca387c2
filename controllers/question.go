package controllers

import (
	"net/http"
	"strconv"

	"evaluation-management-api/config"
	"evaluation-management-api/services"

	"github.com/gin-gonic/gin"
)

func questionService() *services.QuestionService {
	return services.NewQuestionService(config.DB)
}

// GetActiveQuestions returns the questions an evaluation form shows.
// Available to every authenticated account.
func GetActiveQuestions(c *gin.Context) {
	questions, err := questionService().ListActive()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"questions": questions,
	})
}

// GetQuestions returns the whole bank for the manager screen.
func GetQuestions(c *gin.Context) {
	questions, err := questionService().ListAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"questions": questions,
	})
}

// GetQuestion returns one question with its answers.
func GetQuestion(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid question ID"})
		return
	}

	question, svcErr := questionService().Get(uint(questionID))
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"question": question,
	})
}

// CreateQuestion adds a question to the bank.
func CreateQuestion(c *gin.Context) {
	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	question, err := questionService().Create(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"question": question,
		"message":  "Question created",
	})
}

// UpdateQuestion rewrites question text, order and active flag.
func UpdateQuestion(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid question ID"})
		return
	}

	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	question, svcErr := questionService().Update(uint(questionID), input)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"question": question,
		"message":  "Question updated",
	})
}

// DeleteQuestion removes a question, its answers and their responses.
func DeleteQuestion(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid question ID"})
		return
	}

	if err := questionService().Delete(uint(questionID)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Question deleted",
	})
}

// AddAnswer appends an answer choice to a question.
func AddAnswer(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid question ID"})
		return
	}

	var input services.AnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	answer, svcErr := questionService().AddAnswer(uint(questionID), input)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"answer":  answer,
		"message": "Answer created",
	})
}

// UpdateAnswer rewrites an answer choice.
func UpdateAnswer(c *gin.Context) {
	answerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid answer ID"})
		return
	}

	var input services.AnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	answer, svcErr := questionService().UpdateAnswer(uint(answerID), input)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"answer":  answer,
		"message": "Answer updated",
	})
}

// DeleteAnswer removes an answer choice and the responses that chose it.
func DeleteAnswer(c *gin.Context) {
	answerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid answer ID"})
		return
	}

	if err := questionService().DeleteAnswer(uint(answerID)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Answer deleted",
	})
}
