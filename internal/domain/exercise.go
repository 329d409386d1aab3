package domain

// Exercise is one entry in the admin-curated exercise catalog that workout
// plans draw their movements from.
type Exercise struct {
	ExerciseID  string `json:"id" dynamodbav:"exercise_id"`
	Name        string `json:"name" dynamodbav:"name"`
	MuscleGroup string `json:"muscle_group" dynamodbav:"muscle_group"`
	Equipment   string `json:"equipment,omitempty" dynamodbav:"equipment"`
	Description string `json:"description,omitempty" dynamodbav:"description"`
}

type ExerciseInput struct {
	Name        string `json:"name" validate:"required"`
	MuscleGroup string `json:"muscle_group" validate:"required"`
	Equipment   string `json:"equipment"`
	Description string `json:"description"`
}
