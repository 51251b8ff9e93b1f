package catalog

import "purity/internal/model"

var turmericChalkTest = model.TestProcedure{
	Aim:       "To detect the presence of chalk powder in turmeric powder.",
	Materials: []string{"Test tube", "Water", "Turmeric powder sample", "Concentrated Hydrochloric acid (HCl)", "Dropper"},
	Procedure: []string{
		"Take a small quantity of turmeric powder in a test tube.",
		"Add some water to it and shake well.",
		"Add a few drops of concentrated Hydrochloric acid (HCl) to the mixture.",
		"Observe the reaction carefully.",
	},
	Observation: "Effervescence (bubbling) is observed.",
	Conclusion:  "The presence of effervescence indicates the presence of chalk powder or other carbonates.",
	Precautions: []string{"Handle acid with care.", "Do not inhale the fumes directly."},
}

var turmericMetanilTest = model.TestProcedure{
	Aim:       "To detect Metanil Yellow in turmeric powder.",
	Materials: []string{"Test tube", "Turmeric powder sample", "Water", "Concentrated Hydrochloric acid (HCl)"},
	Procedure: []string{
		"Take about 1g of turmeric powder in a test tube.",
		"Add a few drops of concentrated Hydrochloric acid.",
		"Observe the color change.",
		"Add a large amount of water to dilute the mixture.",
	},
	Observation: "The mixture turns pink immediately upon adding acid. If the pink color disappears on dilution, it is pure. If the pink color persists, Metanil Yellow is present.",
	Conclusion:  "Persistence of pink color after dilution indicates adulteration with Metanil Yellow.",
	Precautions: []string{"Acid is corrosive; use protective gear."},
}

var milkWaterTest = model.TestProcedure{
	Aim:       "To detect water adulteration in milk (Slip Test).",
	Materials: []string{"Polished slanting surface (e.g., a glass plate or slate)"},
	Procedure: []string{
		"Place a drop of milk on a polished slanting surface.",
		"Observe the flow of the drop.",
	},
	Observation: "Pure milk flows slowly, leaving a white trail behind. Adulterated milk flows immediately without leaving a mark.",
	Conclusion:  "If the milk flows too fast without a trail, it contains added water.",
	Precautions: []string{"Ensure the surface is clean and dry."},
}

var milkStarchTest = model.TestProcedure{
	Aim:       "To detect starch in milk.",
	Materials: []string{"Test tube", "Milk sample", "Iodine solution", "Water"},
	Procedure: []string{
		"Take 3-5ml of milk in a test tube.",
		"Boil it thoroughly and cool to room temperature.",
		"Add 2-3 drops of iodine solution.",
	},
	Observation: "Formation of blue color indicates the presence of starch.",
	Conclusion:  "Blue color confirms that the milk is adulterated with starch.",
	Precautions: []string{"Cool the milk before adding iodine."},
}

var milkDetergentTest = model.TestProcedure{
	Aim:       "To detect detergent in milk.",
	Materials: []string{"Glass bottle or test tube", "Water", "Milk sample"},
	Procedure: []string{
		"Take equal amounts of milk and water in a bottle.",
		"Shake the mixture vigorously for 1-2 minutes.",
		"Observe the lather formed.",
	},
	Observation: "Pure milk forms a thin foam layer due to agitation. Adulterated milk forms a dense, soapy lather that persists.",
	Conclusion:  "Persistent soapy lather indicates the presence of detergent.",
	Precautions: []string{"Shake vigorously for best results."},
}

var honeySugarTest = model.TestProcedure{
	Aim:       "To detect sugar solution in honey.",
	Materials: []string{"Transparent glass", "Water", "Honey sample"},
	Procedure: []string{
		"Take a transparent glass filled with water.",
		"Add a drop of honey to the glass.",
		"Observe how the honey settles.",
	},
	Observation: "Pure honey does not disperse immediately and settles at the bottom. Adulterated honey disperses in water.",
	Conclusion:  "If the honey dissolves rapidly, it contains added sugar syrup.",
	Precautions: []string{"Do not stir the water initially."},
}

var sugarChalkTest = model.TestProcedure{
	Aim:       "To detect chalk powder in sugar.",
	Materials: []string{"Transparent glass", "Water", "Sugar sample"},
	Procedure: []string{
		"Take a glass of water.",
		"Dissolve 10g of sugar in it.",
		"Allow the solution to settle for a few minutes.",
	},
	Observation: "Chalk powder being insoluble will settle at the bottom. Pure sugar dissolves completely.",
	Conclusion:  "Sediment at the bottom indicates chalk powder adulteration.",
	Precautions: []string{"Use clear water for best visibility."},
}

var oilArgemoneTest = model.TestProcedure{
	Aim:       "To detect Argemone oil in edible oil.",
	Materials: []string{"Test tube", "Edible oil sample", "Concentrated Nitric Acid"},
	Procedure: []string{
		"Take 5ml of the oil sample in a test tube.",
		"Add 5ml of Concentrated Nitric Acid.",
		"Shake the tube carefully.",
		"Allow it to stand.",
	},
	Observation: "Appearance of a reddish-brown precipitate at the acid layer indicates Argemone oil.",
	Conclusion:  "Reddish-brown color confirms adulteration.",
	Precautions: []string{"Nitric acid is dangerous; handle with extreme caution."},
}

var teaIronFilingsTest = model.TestProcedure{
	Aim:       "To detect iron filings in tea leaves.",
	Materials: []string{"Filter paper or white paper", "Magnet", "Tea leaves sample"},
	Procedure: []string{
		"Spread a small quantity of tea leaves on a white paper.",
		"Move a magnet through and over the tea leaves.",
	},
	Observation: "Iron filings will stick to the magnet.",
	Conclusion:  "If particles stick to the magnet, the tea is adulterated with iron filings.",
	Precautions: []string{"Use a strong magnet for better detection."},
}

var teaColorTest = model.TestProcedure{
	Aim:       "To detect artificial color in tea leaves.",
	Materials: []string{"Filter paper or white blotting paper", "Water", "Tea leaves"},
	Procedure: []string{
		"Spread some tea leaves on a white filter paper.",
		"Sprinkle some water on the leaves to make the paper wet.",
		"Remove the leaves and observe the paper.",
	},
	Observation: "Pure tea leaves will not stain the paper immediately. Artificially colored tea will leave pink or red spots/streaks on the paper.",
	Conclusion:  "Colored spots on the paper indicate added artificial color.",
	Precautions: []string{"Use white paper for clear visibility."},
}

var chilliBrickPowderTest = model.TestProcedure{
	Aim:       "To detect brick powder in chilli powder.",
	Materials: []string{"Beaker", "Water", "Chilli powder sample"},
	Procedure: []string{
		"Take a beaker full of water.",
		"Add a teaspoon of chilli powder to it.",
		"Do not stir; let it settle.",
	},
	Observation: "Pure chilli powder floats on the surface. Brick powder settles at the bottom quickly.",
	Conclusion:  "Red sediment at the bottom indicates brick powder.",
	Precautions: []string{"Do not disturb the water while observing."},
}

var chilliColorTest = model.TestProcedure{
	Aim:       "To detect artificial color (Rhodamine B) in chilli powder.",
	Materials: []string{"Glass of water", "Chilli powder sample"},
	Procedure: []string{
		"Take a glass of water.",
		"Sprinkle a small quantity of chilli powder on the surface.",
		"Observe the water carefully.",
	},
	Observation: "If colored streaks descend from the floating powder, artificial color is present. Pure powder floats without releasing color immediately.",
	Conclusion:  "Reddish streaks indicate the presence of artificial water-soluble dyes.",
	Precautions: []string{"Do not stir the water immediately."},
}

var blackPepperPapayaTest = model.TestProcedure{
	Aim:       "To detect papaya seeds in black pepper.",
	Materials: []string{"Beaker or Glass", "Water", "Black pepper sample"},
	Procedure: []string{
		"Take a glass or beaker filled with water.",
		"Add a sample of black pepper corns to it.",
		"Stir well and allow it to stand for a few minutes.",
	},
	Observation: "Good quality black pepper sinks to the bottom. Papaya seeds float on the surface.",
	Conclusion:  "Floating seeds indicate adulteration with papaya seeds.",
	Precautions: []string{"Ensure the water is still before final observation."},
}
