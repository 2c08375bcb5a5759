package parser

// Keywords is the set of reserved MATLAB words. The variable recognizer
// rejects these as names, and query surfaces use the set to rank candidates.
var Keywords = map[string]bool{
	"function": true, "end": true, "if": true, "else": true, "elseif": true,
	"for": true, "while": true, "switch": true, "case": true, "otherwise": true,
	"break": true, "continue": true, "return": true, "global": true,
	"persistent": true, "try": true, "catch": true, "classdef": true,
	"properties": true, "methods": true, "events": true, "enumeration": true,
	"import": true, "parfor": true, "spmd": true, "arguments": true,
}

// Builtins lists common built-in MATLAB functions. Not consulted during
// extraction; the search surface flags exact matches so editors can rank
// user-defined symbols above shadowed builtins.
var Builtins = map[string]bool{
	"abs": true, "acos": true, "asin": true, "atan": true, "atan2": true,
	"ceil": true, "cos": true, "cosh": true, "exp": true, "factorial": true,
	"floor": true, "gcd": true, "hypot": true, "log": true, "log10": true,
	"log2": true, "max": true, "min": true, "mod": true, "nthroot": true,
	"prod": true, "real": true, "rem": true, "round": true, "sec": true,
	"sech": true, "sign": true, "sin": true, "sinh": true, "sqrt": true,
	"tan": true, "tanh": true, "eye": true, "ones": true, "zeros": true,
	"rand": true, "randn": true, "linspace": true, "logspace": true,
	"meshgrid": true, "ndgrid": true, "eig": true, "eigs": true, "svd": true,
	"lu": true, "qr": true, "chol": true, "fft": true, "ifft": true,
	"fft2": true, "ifft2": true, "cell": true, "struct": true,
	"num2cell": true, "size": true, "length": true, "ndims": true,
	"numel": true, "isa": true, "isnumeric": true, "ischar": true,
	"islogical": true, "isinteger": true, "isfloat": true, "strfind": true,
	"strcmp": true, "strncmp": true, "strrep": true, "lower": true,
	"upper": true, "char": true, "double": true, "single": true,
	"int8": true, "int16": true, "int32": true, "int64": true,
	"uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"logical": true, "sparse": true, "full": true, "cat": true,
	"horzcat": true, "vertcat": true, "permute": true, "ipermute": true,
	"reshape": true, "squeeze": true, "sub2ind": true, "ind2sub": true,
	"shiftdim": true, "circshift": true, "find": true, "sort": true,
	"sum": true, "cumsum": true, "cumprod": true, "diff": true,
	"mean": true, "median": true, "std": true, "repmat": true, "kron": true,
	"all": true, "any": true, "exist": true, "strcmpi": true,
	"strmatch": true, "datestr": true, "datenum": true, "datevec": true,
	"weekday": true, "calendar": true, "clock": true, "etime": true,
	"cputime": true, "tic": true, "toc": true, "pause": true,
	"drawnow": true, "save": true, "load": true, "clear": true,
	"close": true, "fopen": true, "fclose": true, "fprintf": true,
	"fscanf": true, "fgets": true, "disp": true, "input": true,
	"keyboard": true, "error": true, "warning": true, "help": true,
	"doc": true, "which": true, "type": true, "ver": true,
	"license": true, "version": true,
}

// IsKeyword reports whether name is a reserved MATLAB word.
func IsKeyword(name string) bool {
	return Keywords[name]
}

// IsBuiltin reports whether name is a known built-in function or keyword.
func IsBuiltin(name string) bool {
	return Builtins[name] || Keywords[name]
}
