package questiongen

// subjectCategories — фиксированный каталог предметов и их подкатегорий.
// Используется для валидации запросов генерации и эндпоинтов каталога.
var subjectCategories = map[string][]string{
	"Technology": {
		"Programming", "Web Development", "Mobile Development", "AI & Machine Learning",
		"Data Science", "Cybersecurity", "Cloud Computing", "DevOps", "Blockchain",
		"Internet of Things", "Software Engineering", "Database Management",
	},
	"Science": {
		"Physics", "Chemistry", "Biology", "Mathematics", "Astronomy",
		"Environmental Science", "Geology", "Medicine", "Genetics", "Botany",
	},
	"Sports": {
		"Football", "Basketball", "Cricket", "Tennis", "Olympics",
		"Formula 1", "Swimming", "Athletics", "Golf", "Baseball",
	},
	"History": {
		"World Wars", "Ancient Civilizations", "Medieval History", "Modern History",
		"American History", "European History", "Asian History", "African History",
	},
	"Geography": {
		"World Capitals", "Countries & Continents", "Natural Landmarks", "Climate",
		"Population & Demographics", "Physical Geography", "Political Geography",
	},
	"Entertainment": {
		"Movies", "Music", "TV Shows", "Books & Literature", "Gaming",
		"Celebrity Trivia", "Awards & Festivals", "Comic Books",
	},
	"Politics": {
		"World Politics", "Government Systems", "Political Leaders", "Elections",
		"International Relations", "Political Parties", "Constitutional Law",
	},
	"Business": {
		"Economics", "Finance", "Marketing", "Management", "Entrepreneurship",
		"Stock Market", "Cryptocurrency", "Business Strategy",
	},
}

// SubjectCategories возвращает каталог предметов и подкатегорий
func SubjectCategories() map[string][]string {
	return subjectCategories
}

// SubjectNames возвращает список предметов в стабильном порядке
func SubjectNames() []string {
	// Порядок как в каталоге фронтенда
	return []string{
		"Technology", "Science", "Sports", "History",
		"Geography", "Entertainment", "Politics", "Business",
	}
}

// IsValidSubjectCategory проверяет, что подкатегория принадлежит предмету
func IsValidSubjectCategory(subject, subCategory string) bool {
	categories, ok := subjectCategories[subject]
	if !ok {
		return false
	}
	for _, c := range categories {
		if c == subCategory {
			return true
		}
	}
	return false
}
