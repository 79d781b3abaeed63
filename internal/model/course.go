package model

// Course название курса, на который записан ученик
type Course string

const (
	CourseComputerLiteracy Course = "Компьютерная грамотность"
	CourseDevelopment      Course = "Разработка"
	CourseDesign           Course = "Дизайн"
	CourseRobotics         Course = "Робототехника"
	Course3DModeling       Course = "3D-моделирование"
)

// Courses возвращает все курсы в порядке отображения
func Courses() []Course {
	return []Course{
		CourseComputerLiteracy,
		CourseDevelopment,
		CourseDesign,
		CourseRobotics,
		Course3DModeling,
	}
}

// Valid проверяет что курс входит в список известных
func (c Course) Valid() bool {
	for _, known := range Courses() {
		if c == known {
			return true
		}
	}
	return false
}
