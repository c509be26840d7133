package content

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/typemaster/backend/internal/models"
)

// defaultPractice holds the stock reference text for each practice mode.
var defaultPractice = map[string]string{
	models.ModeWords:       "the quick brown fox jumps over the lazy dog pack my box with five dozen liquor jugs sphinx of black quartz judge my vow how vexingly quick daft zebras jump waltz nymph for quick jigs vex bud crazy frederick bought many very exquisite opal jewels",
	models.ModeSentences:   "The sun sets over the horizon painting the sky in shades of orange and pink. Technology has transformed the way we communicate and interact with each other. Learning new skills requires dedication patience and consistent practice. Every journey begins with a single step forward into the unknown.",
	models.ModeParagraphs:  "In the digital age, the ability to type quickly and accurately has become an essential skill for professional success. Whether you are writing emails, creating documents, or communicating with colleagues, your typing speed directly impacts your productivity. Regular practice with structured exercises can significantly improve your typing abilities over time. The key is to maintain proper finger positioning and develop muscle memory through repetition. As you progress, you will notice that your speed increases naturally while your accuracy improves. Consistent daily practice, even for just fifteen minutes, can lead to remarkable improvements in your typing proficiency.",
	models.ModeNumbers:     "1234567890 9876543210 1029384756 5647382910 3141592653 2718281828 1618033988 1414213562 1732050807 2236067977 9999888877 7766555544 4433221100 1357924680 2468013579",
	models.ModePunctuation: "Hello, world! How are you today? I'm doing great, thanks for asking. Let's practice some punctuation: semicolons; colons: and commas, periods. Don't forget apostrophes, quotation marks, and hyphens-dashes. Question marks? Exclamation points! Parentheses (like this) and brackets [also these].",
}

type seedTest struct {
	number     int
	title      string
	content    string
	duration   int
	targetWPM  int
	difficulty string
}

// defaultTests are the stock mock tests loaded on first boot. Tests 1-10
// target 35 WPM; the two advanced tests target 40.
var defaultTests = []seedTest{
	{1, "SSC CGL Mock Test 1", "The development of technology has transformed the way we communicate and work in modern society. Digital platforms enable instant connection across vast distances, revolutionizing business operations and personal relationships. Social media networks have created unprecedented opportunities for information sharing and community building. However, this rapid digitalization also presents challenges regarding privacy, security, and the digital divide. As we navigate this technological landscape, it is crucial to balance innovation with ethical considerations and ensure equitable access to digital resources for all members of society.", 900, 35, "intermediate"},
	{2, "SSC CGL Mock Test 2", "Environmental conservation has become one of the most pressing issues of our time. Climate change, deforestation, and pollution threaten ecosystems worldwide, impacting both wildlife and human populations. Sustainable practices in agriculture, industry, and daily life are essential for preserving natural resources for future generations. Governments, organizations, and individuals must collaborate to implement effective environmental policies and adopt eco-friendly technologies. Education and awareness are key factors in promoting conservation efforts and encouraging responsible stewardship of our planet.", 900, 35, "intermediate"},
	{3, "SSC CGL Mock Test 3", "Economic growth and development are fundamental objectives for nations worldwide. A strong economy provides employment opportunities, improves living standards, and enables investment in infrastructure and public services. However, sustainable economic development must consider environmental impact and social equity. Inclusive growth strategies ensure that economic benefits reach all segments of society, reducing poverty and inequality. Innovation, education, and international trade play vital roles in fostering economic prosperity while maintaining environmental sustainability and social justice.", 900, 35, "intermediate"},
	{4, "SSC CGL Mock Test 4", "Healthcare systems worldwide face unprecedented challenges in providing quality medical services to growing populations. Advances in medical technology have extended life expectancy and improved treatment outcomes for many diseases. However, healthcare accessibility remains unequal, with disparities based on geography, income, and social factors. Preventive care, public health initiatives, and healthcare infrastructure development are essential for building resilient health systems. The COVID-19 pandemic highlighted the importance of preparedness, international cooperation, and investment in healthcare capacity.", 900, 35, "intermediate"},
	{5, "SSC CGL Mock Test 5", "Education is the cornerstone of individual and societal development. Quality education empowers individuals with knowledge, skills, and critical thinking abilities necessary for personal growth and professional success. Educational systems must evolve to meet the demands of a rapidly changing world, incorporating technology, fostering creativity, and promoting lifelong learning. Access to education should be universal, ensuring that all children regardless of background have opportunities to reach their full potential. Teachers play a crucial role in shaping minds and inspiring future generations.", 900, 35, "intermediate"},
	{6, "SSC CGL Mock Test 6", "Transportation infrastructure is vital for economic development and social connectivity. Modern transportation systems facilitate the movement of people and goods, supporting trade, tourism, and daily commutes. Sustainable transportation solutions, including public transit, electric vehicles, and cycling infrastructure, are essential for reducing carbon emissions and urban congestion. Investment in transportation infrastructure creates jobs, stimulates economic growth, and improves quality of life. Smart city initiatives integrate technology with transportation planning to create efficient, user-friendly mobility solutions.", 900, 35, "intermediate"},
	{7, "SSC CGL Mock Test 7", "Cultural diversity enriches societies by bringing together different perspectives, traditions, and values. Multicultural communities benefit from the exchange of ideas, artistic expressions, and culinary traditions. Respect for diversity promotes social harmony, creativity, and innovation. However, cultural differences can also lead to misunderstandings and conflicts if not approached with tolerance and open-mindedness. Education about different cultures fosters mutual understanding and appreciation. Celebrating diversity while finding common ground strengthens community bonds and creates inclusive societies.", 900, 35, "intermediate"},
	{8, "SSC CGL Mock Test 8", "Renewable energy sources are essential for addressing climate change and reducing dependence on fossil fuels. Solar, wind, hydroelectric, and geothermal energy provide clean alternatives that minimize environmental impact. Transitioning to renewable energy requires significant investment in technology, infrastructure, and research. Government policies, private sector innovation, and public support are crucial for accelerating the adoption of clean energy. Energy efficiency measures complement renewable energy deployment, reducing overall consumption and environmental footprint while maintaining economic growth.", 900, 35, "intermediate"},
	{9, "SSC CGL Mock Test 9", "Food security is a fundamental human right and a critical global challenge. Agricultural productivity, distribution systems, and access to nutritious food determine the well-being of populations worldwide. Climate change, population growth, and resource constraints threaten food security in many regions. Sustainable agriculture practices, technological innovation, and equitable distribution systems are necessary to ensure adequate food supply for all. Reducing food waste, promoting local food systems, and supporting small-scale farmers contribute to building resilient food systems.", 900, 35, "intermediate"},
	{10, "SSC CGL Mock Test 10", "Artificial intelligence and automation are reshaping industries and labor markets worldwide. While these technologies offer tremendous potential for productivity gains and innovation, they also raise concerns about job displacement and economic inequality. Preparing the workforce for the future requires investment in education, training, and skills development. Ethical considerations surrounding AI include privacy, bias, and accountability. Balancing technological advancement with social responsibility ensures that the benefits of AI are distributed equitably and contribute to human welfare.", 900, 35, "intermediate"},
	{11, "SSC CGL Mock Test 11 - Advanced", "The intricate relationship between urbanization and environmental sustainability presents multifaceted challenges for contemporary policymakers and urban planners. Metropolitan areas consume disproportionate amounts of resources while generating substantial waste and pollution. Implementing green building standards, expanding public transportation networks, and creating urban green spaces are essential strategies for mitigating environmental degradation. Smart city technologies offer innovative solutions for resource management, traffic optimization, and energy efficiency. However, successful urban sustainability requires coordinated efforts across governmental, private, and community sectors, along with significant behavioral changes among urban residents.", 900, 40, "advanced"},
	{12, "SSC CGL Mock Test 12 - Advanced", "Globalization has fundamentally altered economic structures, cultural exchanges, and political dynamics across nations. International trade agreements facilitate the movement of goods, services, and capital, creating interconnected markets. While globalization has lifted millions out of poverty and fostered technological advancement, it has also contributed to income inequality, cultural homogenization, and environmental challenges. The COVID-19 pandemic exposed vulnerabilities in global supply chains, prompting discussions about resilience and self-sufficiency. Navigating the complexities of globalization requires balancing economic integration with local interests, cultural preservation, and environmental protection.", 900, 40, "advanced"},
}

// Seed loads the default practice texts and mock tests if the tables are
// empty. Safe to call on every boot.
func Seed(db *sql.DB) error {
	var testCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM typing_tests`).Scan(&testCount); err != nil {
		return fmt.Errorf("count tests: %w", err)
	}
	if testCount == 0 {
		for _, t := range defaultTests {
			_, err := db.Exec(
				`INSERT INTO typing_tests (test_number, title, content, duration, target_wpm, difficulty)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				t.number, t.title, t.content, t.duration, t.targetWPM, t.difficulty,
			)
			if err != nil {
				return fmt.Errorf("seed test %d: %w", t.number, err)
			}
		}
		log.Printf("[content] seeded %d default typing tests", len(defaultTests))
	}

	var contentCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM practice_contents`).Scan(&contentCount); err != nil {
		return fmt.Errorf("count practice contents: %w", err)
	}
	if contentCount == 0 {
		for mode, body := range defaultPractice {
			_, err := db.Exec(
				`INSERT INTO practice_contents (mode, body) VALUES ($1, $2)`,
				mode, body,
			)
			if err != nil {
				return fmt.Errorf("seed %s content: %w", mode, err)
			}
		}
		log.Printf("[content] seeded practice content for %d modes", len(defaultPractice))
	}

	return nil
}
