// Package generation holds the request-scoped quiz question pipeline: prompt composition, normalisation of
// provider output and the mapping of outcomes to responses. The provider call itself lives in pkg/ai and
// is orchestrated by service.QuestionGenerationService.
package generation
