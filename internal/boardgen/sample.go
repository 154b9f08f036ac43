package boardgen

// SampleBoard returns the bundled offline board used when generation is
// unavailable or a host explicitly requests it.
func SampleBoard() *ProviderBoard {
	return &ProviderBoard{
		GameTitle:  "The Sampler Platter",
		Difficulty: "medium",
		Categories: []ProviderCategory{
			{
				Name: "Planet of the Capes",
				Clues: []ProviderClue{
					{Value: 200, Clue: "This fastest land animal can sprint at over 100 km/h in short bursts.", Answer: "What is a cheetah?", Acceptable: []string{"cheetah"}, Explanation: "Cheetahs accelerate faster than most sports cars but tire quickly."},
					{Value: 400, Clue: "The largest animal ever known to have lived, it feeds mostly on krill.", Answer: "What is a blue whale?", Acceptable: []string{"blue whale"}, Explanation: "Blue whales can exceed 30 meters in length."},
					{Value: 600, Clue: "This flightless bird lays the largest egg of any living animal.", Answer: "What is an ostrich?", Acceptable: []string{"ostrich"}, Explanation: "A single ostrich egg can weigh around 1.4 kilograms."},
					{Value: 800, Clue: "Octopuses have this many hearts.", Answer: "What is three?", Acceptable: []string{"three", "3"}, Explanation: "Two pump blood through the gills and one serves the body."},
					{Value: 1000, Clue: "This immortal-nicknamed jellyfish can revert its cells to an earlier life stage.", Answer: "What is Turritopsis dohrnii?", Acceptable: []string{"turritopsis dohrnii", "the immortal jellyfish", "immortal jellyfish"}, Explanation: "It can cycle between polyp and medusa stages indefinitely."},
				},
			},
			{
				Name: "Capital Gains",
				Clues: []ProviderClue{
					{Value: 200, Clue: "This European capital is famous for its Eiffel Tower.", Answer: "What is Paris?", Acceptable: []string{"paris"}, Explanation: "The tower was built for the 1889 World's Fair."},
					{Value: 400, Clue: "Canberra, not Sydney, is the capital of this country.", Answer: "What is Australia?", Acceptable: []string{"australia"}, Explanation: "Canberra was a planned compromise between Sydney and Melbourne."},
					{Value: 600, Clue: "This South American capital sits at over 2,800 meters, making it one of the highest in the world.", Answer: "What is Quito?", Acceptable: []string{"quito"}, Explanation: "Quito, Ecuador, sits high in the Andes."},
					{Value: 800, Clue: "This African country's three capitals include Pretoria and Cape Town.", Answer: "What is South Africa?", Acceptable: []string{"south africa"}, Explanation: "Bloemfontein is the third, the judicial capital."},
					{Value: 1000, Clue: "Naypyidaw replaced Yangon as this country's capital in 2006.", Answer: "What is Myanmar?", Acceptable: []string{"myanmar", "burma"}, Explanation: "The government relocated to the purpose-built city of Naypyidaw."},
				},
			},
			{
				Name: "Science Friction",
				Clues: []ProviderClue{
					{Value: 200, Clue: "H2O is the chemical formula for this everyday substance.", Answer: "What is water?", Acceptable: []string{"water"}, Explanation: "Two hydrogen atoms bonded to one oxygen atom."},
					{Value: 400, Clue: "This force keeps the planets in orbit around the Sun.", Answer: "What is gravity?", Acceptable: []string{"gravity", "gravitation"}, Explanation: "Described by Newton and refined by Einstein's general relativity."},
					{Value: 600, Clue: "This element, atomic number 79, has the symbol Au.", Answer: "What is gold?", Acceptable: []string{"gold"}, Explanation: "Au comes from the Latin aurum."},
					{Value: 800, Clue: "The powerhouse of the cell, this organelle produces ATP.", Answer: "What is the mitochondrion?", Acceptable: []string{"mitochondrion", "mitochondria"}, Explanation: "Mitochondria convert nutrients into usable chemical energy."},
					{Value: 1000, Clue: "This physicist's uncertainty principle limits how precisely position and momentum can both be known.", Answer: "Who is Werner Heisenberg?", Acceptable: []string{"heisenberg", "werner heisenberg"}, Explanation: "A cornerstone of quantum mechanics, published in 1927."},
				},
			},
			{
				Name: "Reel Talk",
				Clues: []ProviderClue{
					{Value: 200, Clue: "This animated studio made Toy Story, the first fully computer-animated feature film.", Answer: "What is Pixar?", Acceptable: []string{"pixar"}, Explanation: "Toy Story premiered in 1995."},
					{Value: 400, Clue: "In this 1939 classic, Dorothy follows the yellow brick road.", Answer: "What is The Wizard of Oz?", Acceptable: []string{"the wizard of oz", "wizard of oz"}, Explanation: "Based on L. Frank Baum's novel."},
					{Value: 600, Clue: "This director of Jaws and E.T. is one of the highest-grossing filmmakers ever.", Answer: "Who is Steven Spielberg?", Acceptable: []string{"spielberg", "steven spielberg"}, Explanation: "Spielberg also directed Jurassic Park and Schindler's List."},
					{Value: 800, Clue: "This 2019 South Korean film was the first non-English-language Best Picture winner.", Answer: "What is Parasite?", Acceptable: []string{"parasite"}, Explanation: "Directed by Bong Joon-ho, it won four Academy Awards."},
					{Value: 1000, Clue: "This 1927 film was the first feature-length movie with synchronized dialogue.", Answer: "What is The Jazz Singer?", Acceptable: []string{"the jazz singer", "jazz singer"}, Explanation: "It marked the end of the silent film era."},
				},
			},
			{
				Name: "History in the Making",
				Clues: []ProviderClue{
					{Value: 200, Clue: "This wall dividing a German city fell in 1989.", Answer: "What is the Berlin Wall?", Acceptable: []string{"the berlin wall", "berlin wall"}, Explanation: "Its fall preceded German reunification in 1990."},
					{Value: 400, Clue: "This ancient wonder, the only one still standing, is in Giza.", Answer: "What is the Great Pyramid?", Acceptable: []string{"the great pyramid", "great pyramid", "great pyramid of giza"}, Explanation: "Built as a tomb for the pharaoh Khufu."},
					{Value: 600, Clue: "This 1215 English charter limited the power of the king.", Answer: "What is the Magna Carta?", Acceptable: []string{"magna carta", "the magna carta"}, Explanation: "Signed by King John at Runnymede."},
					{Value: 800, Clue: "This empire, ruled from Constantinople, fell to the Ottomans in 1453.", Answer: "What is the Byzantine Empire?", Acceptable: []string{"byzantine empire", "the byzantine empire", "eastern roman empire"}, Explanation: "Its fall is often used to mark the end of the Middle Ages."},
					{Value: 1000, Clue: "This 1648 peace treaty ended the Thirty Years' War and shaped the modern state system.", Answer: "What is the Peace of Westphalia?", Acceptable: []string{"peace of westphalia", "the peace of westphalia", "treaty of westphalia"}, Explanation: "It established the principle of state sovereignty."},
				},
			},
			{
				Name: "Byte Me",
				Clues: []ProviderClue{
					{Value: 200, Clue: "WWW stands for this.", Answer: "What is the World Wide Web?", Acceptable: []string{"world wide web", "the world wide web"}, Explanation: "Invented by Tim Berners-Lee at CERN in 1989."},
					{Value: 400, Clue: "This fruit-named company released the iPhone in 2007.", Answer: "What is Apple?", Acceptable: []string{"apple"}, Explanation: "The iPhone reshaped the smartphone industry."},
					{Value: 600, Clue: "In binary, this single digit pairs with 0 to represent all data.", Answer: "What is 1?", Acceptable: []string{"1", "one"}, Explanation: "Binary encodes everything in ones and zeros."},
					{Value: 800, Clue: "This British mathematician's 1936 abstract machine underpins modern computing theory.", Answer: "Who is Alan Turing?", Acceptable: []string{"turing", "alan turing"}, Explanation: "The Turing machine formalized the notion of computation."},
					{Value: 1000, Clue: "This 1969 network, a precursor to the internet, connected four American universities.", Answer: "What is ARPANET?", Acceptable: []string{"arpanet", "the arpanet"}, Explanation: "Funded by the US Department of Defense's ARPA."},
				},
			},
		},
	}
}
